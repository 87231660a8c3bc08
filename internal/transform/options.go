package transform

import (
	"log/slog"
	"runtime"

	"archive-mapper/internal/slogutil"
)

// Option configures TransformArchive.
type Option func(*options)

type options struct {
	workers       int
	logger        *slog.Logger
	computeFrames bool
	cacheSize     int
}

func defaultOptions() options {
	return options{
		workers:       runtime.GOMAXPROCS(0),
		logger:        slogutil.NewDiscardLogger(),
		computeFrames: true,
		cacheSize:     DefaultCacheSize,
	}
}

// WithWorkers sets how many classes are transformed at once. Values below
// one select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}

		o.workers = n
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slogutil.NewDiscardLogger()
		}

		o.logger = logger
	}
}

// WithComputeFrames selects whether stack map frames are recomputed. When
// disabled the decoded frames are rewritten and written back.
func WithComputeFrames(compute bool) Option {
	return func(o *options) {
		o.computeFrames = compute
	}
}

// WithCacheSize sets how many dependency classes stay resolved.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}
