package fxput

import (
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("progressTracker", func() {
	var (
		mu       sync.Mutex
		updates  []Progress
		tracker  *progressTracker
		received = func() []Progress {
			mu.Lock()
			defer mu.Unlock()
			return append([]Progress(nil), updates...)
		}
	)

	BeforeEach(func() {
		updates = nil
		tracker = newProgressTracker(time.Now(), 10*time.Millisecond, func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, p)
		})
	})

	It("should compute the percentage of the planned bytes", func() {
		tracker.planned.Store(200)
		tracker.transferred.Store(50)
		tracker.fileDone(false)
		tracker.fileDone(true)

		p := tracker.snapshot()
		Expect(p.Status).To(Equal(ProgressStatusInProgress))
		Expect(p.Percentage).To(Equal(25))
		Expect(p.FilesDone).To(Equal(int64(2)))
		Expect(p.FilesFailed).To(Equal(int64(1)))
	})

	It("should report finalizing when every byte is read", func() {
		tracker.planned.Store(100)
		tracker.transferred.Store(100)
		p := tracker.snapshot()
		Expect(p.Status).To(Equal(ProgressStatusFinalizing))
		Expect(p.Percentage).To(Equal(finalizingProgress))
	})

	It("should report zero percent while nothing is planned", func() {
		p := tracker.snapshot()
		Expect(p.Percentage).To(BeZero())
		Expect(p.Status).To(Equal(ProgressStatusInProgress))
	})

	It("should tick until completed", func() {
		completed := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			tracker.track(completed)
		}()
		Eventually(func() int { return len(received()) }).Should(BeNumerically(">=", 2))
		close(completed)
		Eventually(done).Should(BeClosed())
	})

	It("should send a final update", func() {
		tracker.planned.Store(10)
		tracker.transferred.Store(10)
		tracker.finish(UploadReport{})
		Expect(received()).To(HaveLen(1))
		Expect(received()[0].Status).To(Equal(ProgressStatusFinished))
		Expect(received()[0].Percentage).To(Equal(finishedProgress))

		failed := UploadReport{Files: []Outcome{{Status: StatusFailure, Err: errors.New("boom")}}}
		tracker.finish(failed)
		Expect(received()).To(HaveLen(2))
		Expect(received()[1].Status).To(Equal(ProgressStatusInError))
		Expect(received()[1].Error).To(MatchError(ContainSubstring("boom")))
	})

	It("should do nothing without a callback", func() {
		tracker = newProgressTracker(time.Now(), time.Millisecond, nil)
		completed := make(chan struct{})
		close(completed)
		tracker.track(completed)
		tracker.finish(UploadReport{})
	})
})
