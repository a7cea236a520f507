//go:build !nogpu

package gpu

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/smaa"
)

// loggerPtr holds the logger propagated by smaa.SetLogger. Until the
// executor is registered it is nil and logging goes to smaa.Logger(), so
// messages from Init are not lost.
var loggerPtr atomic.Pointer[slog.Logger]

func slogger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return smaa.Logger()
}

// setLogger is called through Executor.SetLogger.
func setLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}
