package primitives

import (
	"errors"
	"testing"
)

func TestBoardConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *BoardConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *BoardConfig) {}},
		{name: "explicit master", mutate: func(c *BoardConfig) { c.Role = RoleMaster }},
		{name: "master role on peer id", mutate: func(c *BoardConfig) { c.BoardID = 2; c.Role = RoleMaster }, wantErr: true},
		{name: "peer role on master id", mutate: func(c *BoardConfig) { c.Role = RolePeer }, wantErr: true},
		{name: "unknown role", mutate: func(c *BoardConfig) { c.Role = "observer" }, wantErr: true},
		{name: "board out of range", mutate: func(c *BoardConfig) { c.BoardID = MaxPlayers }, wantErr: true},
		{name: "master out of range", mutate: func(c *BoardConfig) { c.MasterID = 9 }, wantErr: true},
		{name: "zero knob range", mutate: func(c *BoardConfig) { c.KnobRange = 0 }, wantErr: true},
		{name: "knob range above adc", mutate: func(c *BoardConfig) { c.KnobRange = MaxADC + 1 }, wantErr: true},
		{name: "zero debounce", mutate: func(c *BoardConfig) { c.DebounceTicks = 0 }, wantErr: true},
		{name: "zero deadline", mutate: func(c *BoardConfig) { c.RequestDeadline = 0 }, wantErr: true},
		{name: "zero poll cadence", mutate: func(c *BoardConfig) { c.PollEvery = 0 }, wantErr: true},
		{name: "bad begin channel", mutate: func(c *BoardConfig) { c.BeginChannel = 16 }, wantErr: true},
		{name: "unknown disabled kind", mutate: func(c *BoardConfig) { c.DisabledKinds = []string{"hyperdrive"} }, wantErr: true},
		{name: "switch channel on knob", mutate: func(c *BoardConfig) { c.SwitchChannels["knob"] = 4 }, wantErr: true},
		{name: "switch channel out of mux", mutate: func(c *BoardConfig) { c.SwitchChannels["pb1"] = 20 }, wantErr: true},
		{name: "bad token", mutate: func(c *BoardConfig) { c.RFIDTokens = []string{"zz:00:00:00"} }, wantErr: true},
		{
			name: "everything disabled",
			mutate: func(c *BoardConfig) {
				c.DisabledKinds = nil
				for k := RequestKind(0); k < NumKinds; k++ {
					c.DisabledKinds = append(c.DisabledKinds, k.String())
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBoardConfig(0)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveRole(t *testing.T) {
	master := DefaultBoardConfig(0)
	if got := master.EffectiveRole(); got != RoleMaster {
		t.Errorf("board 0 role = %s, want master", got)
	}
	peer := DefaultBoardConfig(3)
	if got := peer.EffectiveRole(); got != RolePeer {
		t.Errorf("board 3 role = %s, want peer", got)
	}
}

func TestCatalogRanges(t *testing.T) {
	cfg := DefaultBoardConfig(1)
	cat, err := NewCatalog(&cfg)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if got := cat.Range(KindKeypad); got != KeypadRange {
		t.Errorf("keypad range = %d", got)
	}
	if got := cat.Range(KindKnob); got != 10 {
		t.Errorf("knob range = %d", got)
	}
	if got := cat.Range(KindRFID); got != 16 {
		t.Errorf("rfid range = %d", got)
	}
	if got := cat.Range(KindReed); got != SwitchRange {
		t.Errorf("reed range = %d", got)
	}
	if got := cat.Channel(KindToggle2); got != 9 {
		t.Errorf("toggle2 channel = %d", got)
	}
	if got := len(cat.EnabledKinds()); got != int(NumKinds) {
		t.Errorf("enabled kinds = %d, want all", got)
	}
}

func TestCatalogDisables(t *testing.T) {
	cfg := DefaultBoardConfig(1)
	cfg.DisabledKinds = []string{"knob"}
	delete(cfg.SwitchChannels, "ir")
	cfg.RFIDTokens = nil

	cat, err := NewCatalog(&cfg)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	for _, k := range []RequestKind{KindKnob, KindIR, KindRFID} {
		if cat.Enabled(k) {
			t.Errorf("%s should be disabled", k)
		}
	}
	if !cat.Enabled(KindKeypad) {
		t.Error("keypad should stay enabled")
	}
}

func TestCatalogNoKinds(t *testing.T) {
	cfg := DefaultBoardConfig(1)
	cfg.SwitchChannels = nil
	cfg.RFIDTokens = nil
	cfg.DisabledKinds = []string{"keypad", "knob"}
	if _, err := NewCatalog(&cfg); !errors.Is(err, ErrNoKinds) {
		t.Errorf("NewCatalog error = %v, want ErrNoKinds", err)
	}
}

func TestTokenParse(t *testing.T) {
	tok, err := ParseToken("de:ad:BE:ef")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if tok != (Token{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("ParseToken = %v", tok)
	}
	if tok.String() != "de:ad:be:ef" {
		t.Errorf("String() = %q", tok.String())
	}
	if _, err := ParseToken("deadbeef00"); err == nil {
		t.Error("five-byte token should fail")
	}
}
