package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		debug   bool
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, false, true},
		{"debug at info level", log.InfoLevel, true, false},
		{"debug at debug level", log.DebugLevel, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			if tt.debug {
				logger.Debug("kept node", "node", 7)
			} else {
				logger.Info("kept node", "node", 7)
			}
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("without a logger in the context, log.Default() is used")
	}
	custom := newLogger(io.Discard, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func assertLogged(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("log output missing %q:\n%s", w, out)
		}
	}
}

func TestCandidatesLogsStages(t *testing.T) {
	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.InfoLevel))

	if err := testCLI().runCandidates(ctx, writeRoad(t), filterFlags{}, true); err != nil {
		t.Fatal(err)
	}
	assertLogged(t, buf.String(),
		"loaded network", "nodes=3", "links=4",
		"selected candidates", "candidates=1",
		"took=",
	)
}

func TestSimplifyLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	input := writeRoad(t)

	root := c.RootCommand()
	root.SetArgs([]string{"simplify", input, "-o", filepath.Join(filepath.Dir(input), "out.json"), "--no-cache"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	assertLogged(t, buf.String(),
		"simplify finished", "deleted=1", "kept=0", "passes=1", "cached=false",
	)
}
