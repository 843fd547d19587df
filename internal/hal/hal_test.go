package hal

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/comalice/spaceteam/internal/bus"
	"github.com/comalice/spaceteam/internal/primitives"
)

func newTestLCD() (*LCD, *LCDController) {
	ctrl := NewLCDController()
	b := bus.New(bus.Devices{bus.Display: ctrl})
	return NewLCD(b, 0, log.New(io.Discard, "", 0)), ctrl
}

func TestLCDWriteLines(t *testing.T) {
	lcd, ctrl := newTestLCD()

	lcd.WriteLine(Line1, "Set Thruster")
	lcd.WriteLine(Line2, "to 1234")

	if got := ctrl.Visible(Line1); got != "Set Thruster    " {
		t.Errorf("line 1 = %q", got)
	}
	if got := ctrl.Visible(Line2); got != "to 1234         " {
		t.Errorf("line 2 = %q", got)
	}

	lcd.WriteLine(Line1, "GAME OVER!")
	if got := strings.TrimRight(ctrl.Visible(Line1), " "); got != "GAME OVER!" {
		t.Errorf("overwrite left %q", got)
	}

	lcd.ClearLine(Line2)
	if got := strings.TrimSpace(ctrl.Visible(Line2)); got != "" {
		t.Errorf("cleared line 2 = %q", got)
	}
}

func TestLCDScrollOnlyWhenLong(t *testing.T) {
	lcd, ctrl := newTestLCD()

	lcd.WriteLine(Line1, "short")
	lcd.Scroll()
	if got := ctrl.Visible(Line1); !strings.HasPrefix(got, "short") {
		t.Errorf("short line scrolled: %q", got)
	}

	lcd.WriteLine(Line1, "ABCDEFGHIJKLMNOPQRSTUV")
	lcd.Scroll()
	lcd.Scroll()
	if got := ctrl.Visible(Line1); got != "CDEFGHIJKLMNOPQR" {
		t.Errorf("after two scrolls = %q", got)
	}

	lcd.Clear()
	if got := strings.TrimSpace(ctrl.Visible(Line1)); got != "" {
		t.Errorf("after clear = %q", got)
	}
}

func TestLCDKeepsOneLineOfMemory(t *testing.T) {
	lcd, ctrl := newTestLCD()
	text := strings.Repeat("0123456789", 4) + "OVERFLOW"

	lcd.WriteLine(Line2, text)
	if got := lcd.lines[lineIndex(Line2)]; got != text[:lcdLineLen] {
		t.Errorf("stored %q, want the first %d characters", got, lcdLineLen)
	}
	if got := ctrl.Visible(Line2); got != text[:DisplayWidth] {
		t.Errorf("visible = %q", got)
	}
	for i := 0; i < lcdLineLen-DisplayWidth; i++ {
		lcd.Scroll()
	}
	if got := ctrl.Visible(Line2); got != text[lcdLineLen-DisplayWidth:lcdLineLen] {
		t.Errorf("scrolled to the end = %q", got)
	}
}

func TestLCDControllerRejectsBadFrames(t *testing.T) {
	ctrl := NewLCDController()
	if _, err := ctrl.Exchange([]byte{1}); !errors.Is(err, ErrBadFrame) {
		t.Errorf("short frame error = %v", err)
	}
	if _, err := ctrl.Exchange([]byte{7, 0}); !errors.Is(err, ErrBadFrame) {
		t.Errorf("bad type error = %v", err)
	}
}

func TestRFIDReader(t *testing.T) {
	field := NewRFIDField()
	b := bus.New(bus.Devices{bus.RFID: field})
	r := NewRFIDReader(b)
	ctx := context.Background()

	if _, err := r.ReadToken(ctx); !errors.Is(err, ErrNotReady) {
		t.Fatalf("ReadToken before Init error = %v", err)
	}
	if err := r.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := r.ReadToken(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty field error = %v", err)
	}

	want := primitives.Token{0xDE, 0xAD, 0xBE, 0xEF}
	field.Present(want, 0)
	got, err := r.ReadToken(ctx)
	if err != nil {
		t.Fatalf("ReadToken: %v", err)
	}
	if got != want {
		t.Errorf("ReadToken = %v, want %v", got, want)
	}

	field.Remove()
	if _, err := r.ReadToken(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("after Remove error = %v", err)
	}
}

type corruptField struct{}

func (corruptField) Exchange(out []byte) ([]byte, error) {
	switch out[0] {
	case rfidRequestA:
		return []byte{0x04, 0x00}, nil
	case rfidAnticoll:
		return []byte{1, 2, 3, 4, 0xFF}, nil
	}
	return nil, nil
}

func TestRFIDReaderChecksum(t *testing.T) {
	r := NewRFIDReader(bus.New(bus.Devices{bus.RFID: corruptField{}}))
	ctx := context.Background()
	if err := r.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadToken(ctx); !errors.Is(err, ErrChecksum) {
		t.Errorf("ReadToken error = %v, want ErrChecksum", err)
	}
}

func TestPanel(t *testing.T) {
	p := NewPanel()

	p.SetSwitch(3, 1)
	if p.ReadSwitch(3) != 1 {
		t.Error("switch 3 not set")
	}
	p.Flip(3)
	if p.ReadSwitch(3) != 0 {
		t.Error("switch 3 not flipped")
	}
	if p.ReadSwitch(99) != 0 {
		t.Error("out of range channel should read 0")
	}

	p.SetKnob(5000)
	if got := p.ReadKnob(); got != primitives.MaxADC-1 {
		t.Errorf("knob = %d, want clamp to %d", got, primitives.MaxADC-1)
	}

	p.Press(1, 2, KeyRun)
	var got []Key
	for {
		k, ok := p.ReadKeypad()
		if !ok {
			break
		}
		got = append(got, k)
	}
	if len(got) != 3 || got[2] != KeyRun {
		t.Errorf("keys = %v", got)
	}
}

func TestKeyDigit(t *testing.T) {
	if d, ok := Key(7).Digit(); !ok || d != 7 {
		t.Errorf("Digit(7) = %d, %v", d, ok)
	}
	if _, ok := KeyRun.Digit(); ok {
		t.Error("Run is not a digit")
	}
}

func TestLEDBank(t *testing.T) {
	var b LEDBank
	b.Set(0, true)
	b.Set(15, true)
	b.Set(16, true)
	snap := b.Snapshot()
	if !snap[0] || !snap[15] || snap[1] {
		t.Errorf("snapshot = %v", snap)
	}
}
