package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to log.Default() if l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnDesignStart(_ context.Context, runID string, flow, headloss float64) {
	h.Logger.Debug("design start", "run", short(runID), "flow", flow, "headloss", headloss)
}

func (h *LogHooks) OnDesignComplete(_ context.Context, runID string, rows int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("design failed", "run", short(runID), "took", d.Round(time.Microsecond), "err", err)
		return
	}
	h.Logger.Debug("design done", "run", short(runID), "rows", rows, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
