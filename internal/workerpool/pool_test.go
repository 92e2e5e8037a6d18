package workerpool_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/derektruong/fxput/internal/workerpool"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pool", func() {
	var pool *workerpool.Pool

	BeforeEach(func() {
		pool = workerpool.New(GinkgoLogr, 3)
		DeferCleanup(pool.Close)
	})

	It("should default to a single worker", func() {
		p := workerpool.New(GinkgoLogr, 0)
		defer p.Close()
		Expect(p.Width()).To(Equal(1))
	})

	It("should never run more tasks than its width", func(ctx context.Context) {
		var done atomic.Int64
		for range 20 {
			Expect(pool.Go(func() {
				time.Sleep(5 * time.Millisecond)
				done.Add(1)
			})).To(Succeed())
		}
		pool.Wait()
		Expect(done.Load()).To(Equal(int64(20)))
		Expect(pool.Stats().Peak).To(BeNumerically("<=", 3))
		Expect(pool.Stats().Submitted).To(Equal(int64(20)))
	}, NodeTimeout(10*time.Second))

	It("should join tasks submitted by other tasks", func(ctx context.Context) {
		var leaves atomic.Int64
		var spawn func(depth int)
		spawn = func(depth int) {
			if depth == 0 {
				leaves.Add(1)
				return
			}
			for range 3 {
				Expect(pool.Go(func() { spawn(depth - 1) })).To(Succeed())
			}
		}
		Expect(pool.Go(func() { spawn(4) })).To(Succeed())
		pool.Wait()
		Expect(leaves.Load()).To(Equal(int64(81)))
	}, NodeTimeout(10*time.Second))

	It("should not deadlock when every worker submits", func(ctx context.Context) {
		var children atomic.Int64
		for range 3 {
			Expect(pool.Go(func() {
				for range 10 {
					_ = pool.Go(func() { children.Add(1) })
				}
			})).To(Succeed())
		}
		pool.Wait()
		Expect(children.Load()).To(Equal(int64(30)))
	}, NodeTimeout(10*time.Second))

	It("should survive a panicking task", func(ctx context.Context) {
		var ran atomic.Bool
		Expect(pool.Go(func() { panic("boom") })).To(Succeed())
		Expect(pool.Go(func() { ran.Store(true) })).To(Succeed())
		pool.Wait()
		Expect(ran.Load()).To(BeTrue())
	}, NodeTimeout(10*time.Second))

	It("should reject tasks once closed", func() {
		pool.Close()
		Expect(pool.Go(func() {})).To(MatchError(workerpool.ErrClosed))
	})

	It("should drain queued tasks before closing", func(ctx context.Context) {
		var done atomic.Int64
		for range 10 {
			Expect(pool.Go(func() {
				time.Sleep(time.Millisecond)
				done.Add(1)
			})).To(Succeed())
		}
		pool.Close()
		Expect(done.Load()).To(Equal(int64(10)))
	}, NodeTimeout(10*time.Second))
})
