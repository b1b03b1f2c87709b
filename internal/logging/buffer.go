package logging

import (
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// DefaultBufferSize is the default number of log entries kept in memory
// for the TUI's log panel.
const DefaultBufferSize = 100

// LogBuffer holds the most recent log entries for the TUI's log pane.
// It is a plain append-and-trim slice rather than a modular ring index:
// once the buffer is full, every Add shifts the retained entries down by
// one, a copy of maxSize entries that is cheap at DefaultBufferSize, and
// Entries/Last need no index arithmetic at all.
type LogBuffer struct {
	entries []LogEntry
	maxSize int
	mu      sync.Mutex
}

// NewLogBuffer creates a buffer holding at most maxSize entries.
func NewLogBuffer(maxSize int) *LogBuffer {
	if maxSize <= 0 {
		maxSize = DefaultBufferSize
	}
	return &LogBuffer{maxSize: maxSize}
}

// Add appends an entry, dropping the oldest one once full.
func (b *LogBuffer) Add(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if over := len(b.entries) - b.maxSize; over > 0 {
		b.entries = append(b.entries[:0], b.entries[over:]...)
	}
}

// Entries returns a copy of all buffered entries, oldest first.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Last returns the most recent n entries, newest last.
func (b *LogBuffer) Last(n int) []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.entries) {
		n = len(b.entries)
	}
	start := len(b.entries) - n
	out := make([]LogEntry, n)
	copy(out, b.entries[start:])
	return out
}

// Len returns the number of entries currently buffered.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Clear empties the buffer.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = b.entries[:0]
}

// DefaultLogPath returns $XDG_STATE_HOME/cachesweep/cachesweep.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "cachesweep", "cachesweep.log")
}
