// Package logging provides leveled logging and round tracing for polisim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A RoundLogger for structured JSONL round snapshots (rounds.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/constants"
	"github.com/nvandessel/polisim/internal/sim"
)

// LevelTrace is a custom slog level below Debug for full content logging.
// It labels output as TRACE and enables the round trace like debug does.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RoundEntry is one line of the round trace.
type RoundEntry struct {
	RunID  string             `json:"run_id,omitempty"`
	Round  int                `json:"round"`
	Order  []string           `json:"order"`
	Scores map[string]float64 `json:"scores"`
	Time   string             `json:"time"`
}

// RoundLogger writes per-round snapshots to a JSONL file.
// It is safe for concurrent use. A nil RoundLogger is safe to use;
// all methods are no-ops on nil receiver.
type RoundLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewRoundLogger creates a round logger writing to dir/rounds.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewRoundLogger(dir string, level string) *RoundLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, constants.RoundTraceFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &RoundLogger{file: f}
}

// Log writes entry as a single JSONL line. Time is filled in when empty.
// Safe to call on nil receiver.
func (rl *RoundLogger) Log(entry RoundEntry) {
	if rl == nil || rl.file == nil {
		return
	}

	if entry.Time == "" {
		entry.Time = time.Now().UTC().Format(time.RFC3339Nano)
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = rl.file.Write(data)
}

// Observer adapts the logger to a sim.RoundObserver that records member ids
// from g. Returns nil on a nil receiver so the simulator skips the hook.
func (rl *RoundLogger) Observer(runID string, g *congress.Graph) sim.RoundObserver {
	if rl == nil {
		return nil
	}
	return func(round int, order []congress.Handle, scores []float64) {
		entry := RoundEntry{
			RunID:  runID,
			Round:  round,
			Order:  make([]string, len(order)),
			Scores: make(map[string]float64, len(scores)),
		}
		for i, h := range order {
			entry.Order[i] = g.Member(h).ID
		}
		for i, s := range scores {
			entry.Scores[g.Member(congress.Handle(i)).ID] = s
		}
		rl.Log(entry)
	}
}

// Close closes the underlying file. Safe to call on nil receiver.
func (rl *RoundLogger) Close() {
	if rl == nil || rl.file == nil {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.file.Close()
	rl.file = nil
}
