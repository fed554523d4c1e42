// Package cli is the lfom command line.
//
//	lfom design --flow "12 L/s" --headloss "20 cm"
//	lfom curve --flow "12 L/s" --samples 11
//	lfom catalog pipes --sdr 26
//	lfom catalog drills --series metric
//	lfom cache clear
//	lfom serve --addr :8080
//
// Commands are cobra commands hung off [CLI.RootCommand]. Human output goes
// to stdout through lipgloss; diagnostics go to the charmbracelet/log logger,
// which main creates on stderr and raises to debug with --verbose. The
// logger travels to subcommands in the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat prints centiseconds, e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
	})
}

// progress times one step of a command.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info with the elapsed time, in milliseconds, appended as
// "took".
func (p *progress) done(msg string, keyvals ...any) {
	took := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "took", took)...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default() so commands run outside
// RootCommand still log somewhere.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
