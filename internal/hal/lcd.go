package hal

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/comalice/spaceteam/internal/bus"
)

// HD44780-style controller commands.
const (
	lcdClear      = 0x01
	lcdShiftLeft  = 0x18
	lcdSetAddress = 0x80

	lcdLine1Start = 0x00
	lcdLine2Start = 0x40
	lcdLineLen    = 40 // DDRAM per line

	frameCommand = 0x00
	frameData    = 0x01
)

// LCD is a Display that drives a character controller over the shared bus.
// Each WriteLine is one bus transaction: an address command then data bytes.
type LCD struct {
	bus        *bus.Bus
	writeDelay time.Duration
	logger     *log.Logger
	timeout    time.Duration

	mu    sync.Mutex
	lines [2]string // last text per line, for scroll decisions
}

// NewLCD returns an LCD on b. writeDelay is the controller's per-command
// cycle time (37us on hardware, zero in tests).
func NewLCD(b *bus.Bus, writeDelay time.Duration, logger *log.Logger) *LCD {
	if logger == nil {
		logger = log.Default()
	}
	return &LCD{bus: b, writeDelay: writeDelay, logger: logger, timeout: 50 * time.Millisecond}
}

func lineStart(line int) byte {
	if line == Line2 {
		return lcdLine2Start
	}
	return lcdLine1Start
}

// WriteLine stores up to one line of display memory (40 characters). The
// first DisplayWidth show; Scroll brings the rest into view.
func (l *LCD) WriteLine(line int, text string) {
	if len(text) > lcdLineLen {
		text = text[:lcdLineLen]
	}
	// Pad so the previous content is overwritten.
	padded := fmt.Sprintf("%-*s", DisplayWidth, text)
	if err := l.transact(func(tx *bus.Tx) error {
		if err := l.command(tx, lcdSetAddress|lineStart(line)); err != nil {
			return err
		}
		for i := 0; i < len(padded); i++ {
			if _, err := tx.Transfer([]byte{frameData, padded[i]}); err != nil {
				return err
			}
			l.wait()
		}
		return nil
	}); err != nil {
		l.logger.Printf("[LCD] write line %d: %v", line, err)
		return
	}

	l.mu.Lock()
	l.lines[lineIndex(line)] = text
	l.mu.Unlock()
}

func (l *LCD) ClearLine(line int) {
	l.WriteLine(line, "")
}

// Clear blanks the whole display.
func (l *LCD) Clear() {
	if err := l.transact(func(tx *bus.Tx) error {
		return l.command(tx, lcdClear)
	}); err != nil {
		l.logger.Printf("[LCD] clear: %v", err)
		return
	}
	l.mu.Lock()
	l.lines = [2]string{}
	l.mu.Unlock()
}

// Scroll shifts the visible window left by one column when a line is wider
// than the display.
func (l *LCD) Scroll() {
	l.mu.Lock()
	long := len(l.lines[0]) > DisplayWidth || len(l.lines[1]) > DisplayWidth
	l.mu.Unlock()
	if !long {
		return
	}
	if err := l.transact(func(tx *bus.Tx) error {
		return l.command(tx, lcdShiftLeft)
	}); err != nil {
		l.logger.Printf("[LCD] scroll: %v", err)
	}
}

func (l *LCD) transact(fn func(tx *bus.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	return l.bus.Do(ctx, bus.Display, fn)
}

func (l *LCD) command(tx *bus.Tx, cmd byte) error {
	_, err := tx.Transfer([]byte{frameCommand, cmd})
	l.wait()
	return err
}

func (l *LCD) wait() {
	if l.writeDelay > 0 {
		time.Sleep(l.writeDelay)
	}
}

func lineIndex(line int) int {
	if line == Line2 {
		return 1
	}
	return 0
}

// LCDController is the device side of the bus: display RAM plus cursor.
type LCDController struct {
	mu     sync.Mutex
	ddram  [2][lcdLineLen]byte
	cursor byte
	shift  int
}

func NewLCDController() *LCDController {
	c := &LCDController{}
	c.clear()
	return c
}

func (c *LCDController) clear() {
	for i := range c.ddram {
		for j := range c.ddram[i] {
			c.ddram[i][j] = ' '
		}
	}
	c.cursor, c.shift = 0, 0
}

// Exchange accepts two-byte frames: {0x00, command} or {0x01, data}.
func (c *LCDController) Exchange(out []byte) ([]byte, error) {
	if len(out) != 2 {
		return nil, fmt.Errorf("lcd frame of %d bytes: %w", len(out), ErrBadFrame)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	switch out[0] {
	case frameCommand:
		cmd := out[1]
		switch {
		case cmd&lcdSetAddress != 0:
			c.cursor = cmd &^ lcdSetAddress
		case cmd == lcdClear:
			c.clear()
		case cmd == lcdShiftLeft:
			c.shift = (c.shift + 1) % lcdLineLen
		}
	case frameData:
		row, col := 0, int(c.cursor)
		if c.cursor >= lcdLine2Start {
			row, col = 1, int(c.cursor-lcdLine2Start)
		}
		if col < lcdLineLen {
			c.ddram[row][col] = out[1]
		}
		c.cursor++
	default:
		return nil, fmt.Errorf("lcd frame type %#x: %w", out[0], ErrBadFrame)
	}
	return []byte{0}, nil
}

// Visible returns the DisplayWidth characters currently shown on a line.
func (c *LCDController) Visible(line int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	row := lineIndex(line)
	out := make([]byte, DisplayWidth)
	for i := range out {
		out[i] = c.ddram[row][(c.shift+i)%lcdLineLen]
	}
	return string(out)
}
