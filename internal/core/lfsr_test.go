package core

import (
	"testing"

	"github.com/comalice/spaceteam/internal/primitives"
)

type draw struct {
	kind  primitives.RequestKind
	value uint16
}

func TestDrawRequestSequence(t *testing.T) {
	tests := []struct {
		name     string
		seed     uint16
		disabled []string
		want     []draw
	}{
		{"default seed", 0xACE1, nil, []draw{
			{primitives.KindToggle2, 0}, {primitives.KindToggle4, 0}, {primitives.KindRFID, 12},
		}},
		{"zero seed uses default", 0, nil, []draw{
			{primitives.KindToggle2, 0}, {primitives.KindToggle4, 0}, {primitives.KindRFID, 12},
		}},
		{"beef", 0xBEEF, nil, []draw{
			{primitives.KindToggle3, 0}, {primitives.KindKnob, 7}, {primitives.KindPB1, 0},
		}},
		{"one", 0x0001, nil, []draw{
			{primitives.KindToggle2, 0}, {primitives.KindToggle2, 0}, {primitives.KindToggle2, 0},
		}},
		{"one with toggle2 disabled", 0x0001, []string{"toggle2"}, []draw{
			{primitives.KindToggle3, 0}, {primitives.KindToggle3, 0}, {primitives.KindToggle3, 0},
		}},
		{"all ones", 0xFFFF, nil, []draw{
			{primitives.KindToggle1, 0}, {primitives.KindToggle1, 0}, {primitives.KindToggle1, 0},
		}},
		{"low byte", 0x00FF, nil, []draw{
			{primitives.KindRFID, 15}, {primitives.KindToggle3, 0}, {primitives.KindPB3, 0},
		}},
		{"skips disabled kinds", 0xACE1, []string{"toggle2", "toggle4", "rfid"}, []draw{
			{primitives.KindToggle3, 0}, {primitives.KindTilt, 0}, {primitives.KindKnob, 6},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := primitives.DefaultBoardConfig(0)
			cfg.DisabledKinds = tt.disabled
			cat, err := primitives.NewCatalog(&cfg)
			if err != nil {
				t.Fatal(err)
			}
			l := NewLFSR(tt.seed)
			for i, w := range tt.want {
				k, v := drawRequest(l, cat)
				if k != w.kind || v != w.value {
					t.Errorf("draw %d = (%s, %d), want (%s, %d)", i, k, v, w.kind, w.value)
				}
			}
		})
	}
}

func TestDrawRequestNeverYieldsDisabledKind(t *testing.T) {
	cfg := primitives.DefaultBoardConfig(0)
	cfg.DisabledKinds = []string{"keypad", "pb1", "pb2", "toggle1", "tilt", "reed"}
	cat, err := primitives.NewCatalog(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	l := NewLFSR(1)
	for seed := 0; seed <= 0xFFFF; seed++ {
		l.Seed(uint16(seed))
		k, v := drawRequest(l, cat)
		if !cat.Enabled(k) {
			t.Fatalf("seed %#04x drew disabled kind %s", seed, k)
		}
		if v >= cat.Range(k) {
			t.Fatalf("seed %#04x drew %s value %d out of range %d", seed, k, v, cat.Range(k))
		}
	}
}

func TestLFSRNeverSticksAtZero(t *testing.T) {
	l := NewLFSR(0)
	if l.State() != DefaultSeed {
		t.Fatalf("zero seed state = %#04x, want %#04x", l.State(), DefaultSeed)
	}
	seen := map[uint16]bool{}
	for i := 0; i < 1000; i++ {
		v := l.Next()
		if v == 0 {
			t.Fatalf("register reached zero after %d steps", i)
		}
		seen[v] = true
	}
	if len(seen) < 900 {
		t.Errorf("only %d distinct states in 1000 steps", len(seen))
	}
}
