package common

import "go.uber.org/zap"

// Logger is the process-wide structured logger used by the buffer pool
// and the disk manager for lifecycle and failure events. It replaces an ad-hoc debug-print harness with the
// structured logger already present in the dependency graph.
var Logger *zap.SugaredLogger

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on a broken encoder/sink config; fall
		// back to a no-op logger rather than take the process down over logging.
		l = zap.NewNop()
	}
	Logger = l.Sugar()
}
