package main

import (
	"time"

	"github.com/derektruong/fxput"
	"github.com/docker/go-units"
	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

// newProgressLogger returns a callback logging the upload progress at most
// once per interval. Terminal updates are always logged.
func newProgressLogger(logger logr.Logger, interval time.Duration) fxput.ProgressUpdatedCallback {
	logger = logger.WithName("progress")
	sometimes := &rate.Sometimes{Interval: interval}

	return func(progress fxput.Progress) {
		switch progress.Status {
		case fxput.ProgressStatusInProgress, fxput.ProgressStatusFinalizing:
			sometimes.Do(func() {
				logger.Info("upload in progress",
					"percentage", progress.Percentage,
					"transferred", units.BytesSize(float64(progress.TransferredSize)),
					"total", units.BytesSize(float64(progress.TotalSize)),
					"speed", units.BytesSize(float64(progress.Speed))+"/s",
					"filesDone", progress.FilesDone,
					"filesFailed", progress.FilesFailed,
				)
			})
		case fxput.ProgressStatusFinished:
			logger.Info("upload finished",
				"transferred", units.BytesSize(float64(progress.TransferredSize)),
				"filesDone", progress.FilesDone,
				"duration", progress.Duration.Round(time.Millisecond).String())
		case fxput.ProgressStatusInError:
			logger.Info("upload finished with errors",
				"filesDone", progress.FilesDone,
				"filesFailed", progress.FilesFailed,
				"duration", progress.Duration.Round(time.Millisecond).String())
		}
	}
}
