// Package cli implements the netweave command-line interface.
//
// The commands mirror the pipeline stages: generate builds a random network
// and writes it as a graph JSON file, layout places and normalizes the nodes
// of such a file, and run does both in one step. sample draws a scene from a
// parameter schema, inspect summarizes a graph file, serve exposes the
// pipeline over HTTP and cache manages the local result cache.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so that pipeline stages log with the run id.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and drops messages below level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command stage and logs its outcome.
type progress struct {
	logger *log.Logger
	stage  string
	start  time.Time
}

func newProgress(l *log.Logger, stage string) *progress {
	return &progress{logger: l, stage: stage, start: time.Now()}
}

// done logs msg with the stage, keyvals and the elapsed time rounded to the
// millisecond. Cache hits are logged at debug level.
func (p *progress) done(msg string, cached bool, keyvals ...any) {
	kv := make([]any, 0, len(keyvals)+6)
	kv = append(kv, "stage", p.stage)
	kv = append(kv, keyvals...)
	kv = append(kv, "elapsed", time.Since(p.start).Round(time.Millisecond))
	if cached {
		p.logger.Debug(msg, append(kv, "cached", true)...)
		return
	}
	p.logger.Info(msg, kv...)
}

type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside of it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
