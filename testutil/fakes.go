package testutil

import (
	"io"
	"log"
	"sync"

	"github.com/comalice/spaceteam/internal/hal"
)

// Quiet is a discard logger for tests.
func Quiet() *log.Logger { return log.New(io.Discard, "", 0) }

// RecordingDisplay keeps the current text of each line and every write.
type RecordingDisplay struct {
	mu      sync.Mutex
	lines   [3]string
	history []string
}

func (d *RecordingDisplay) WriteLine(line int, text string) {
	if len(text) > hal.DisplayWidth {
		text = text[:hal.DisplayWidth]
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if line == hal.Line1 || line == hal.Line2 {
		d.lines[line] = text
	}
	d.history = append(d.history, text)
}

func (d *RecordingDisplay) ClearLine(line int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if line == hal.Line1 || line == hal.Line2 {
		d.lines[line] = ""
	}
}

func (d *RecordingDisplay) Line(line int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if line == hal.Line1 || line == hal.Line2 {
		return d.lines[line]
	}
	return ""
}

// Saw reports whether text was ever written.
func (d *RecordingDisplay) Saw(text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.history {
		if h == text {
			return true
		}
	}
	return false
}

// FixedSeeder always returns the same counter value.
type FixedSeeder uint16

func (s FixedSeeder) Counter() uint16 { return uint16(s) }
