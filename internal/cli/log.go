// Package cli implements the netprune command-line interface.
//
// The CLI loads a network file, removes degree-2 nodes with the simplify
// package, and writes the simplified network together with an optional
// diagram. It is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - simplify: Remove nodes and write the simplified network
//   - candidates: List the nodes a simplify run would try to remove
//   - policy: Show the aggregation function of every attribute
//   - render: Draw a network as DOT, SVG or PNG
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netprune/pkg/network"
)

// newLogger writes leveled, timestamped lines ("15:04:05.00") to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command. done logs msg at info level with the
// given key-value pairs and the elapsed time as "took".
type stage struct {
	logger *log.Logger
	start  time.Time
}

func startStage(l *log.Logger) stage { return stage{logger: l, start: time.Now()} }

func (s stage) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
}

// logLoaded reports a freshly imported network.
func logLoaded(st stage, path string, net *network.Network) {
	st.done("loaded network", "path", path,
		"nodes", net.NodeCount(), "links", net.LinkCount(), "lines", net.LineCount())
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
