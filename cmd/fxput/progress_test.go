package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/derektruong/fxput"
	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("newProgressLogger", func() {
	var (
		out bytes.Buffer
		cb  fxput.ProgressUpdatedCallback
	)

	BeforeEach(func() {
		out.Reset()
		logger := logr.FromSlogHandler(slog.NewTextHandler(&out, nil))
		cb = newProgressLogger(logger, time.Hour)
	})

	It("should throttle in progress updates", func() {
		for i := range 10 {
			cb(fxput.Progress{Status: fxput.ProgressStatusInProgress, Percentage: i * 10, TotalSize: 1 << 20})
		}
		Expect(strings.Count(out.String(), "upload in progress")).To(Equal(1))
		Expect(out.String()).To(ContainSubstring("total=1MiB"))
	})

	It("should always log terminal updates", func() {
		cb(fxput.Progress{Status: fxput.ProgressStatusInProgress})
		cb(fxput.Progress{Status: fxput.ProgressStatusFinished, TransferredSize: 2048})
		cb(fxput.Progress{Status: fxput.ProgressStatusInError, FilesFailed: 2, Error: errors.New("boom")})
		Expect(out.String()).To(ContainSubstring("upload finished"))
		Expect(out.String()).To(ContainSubstring("upload finished with errors"))
		Expect(out.String()).To(ContainSubstring("filesFailed=2"))
	})
})

var _ = Describe("setupLogging", func() {
	It("should fall back to the info level", func() {
		var out bytes.Buffer
		a := &app{logLevel: "verbose", logFormat: "json"}
		a.setupLogging(&out)
		a.logger.V(1).Info("hidden")
		a.logger.Info("shown")
		Expect(out.String()).ToNot(ContainSubstring("hidden"))
		Expect(out.String()).To(ContainSubstring(`"msg":"shown"`))
	})

	It("should log debug lines at the debug level", func() {
		var out bytes.Buffer
		a := &app{logLevel: "debug"}
		a.setupLogging(&out)
		a.logger.V(1).Info("detail")
		Expect(out.String()).To(ContainSubstring("detail"))
	})
})
