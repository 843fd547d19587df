package primitives

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Token is an RFID badge identifier.
type Token [TokenSize]byte

// String renders the token as colon-separated hex, e.g. "04:a1:30:00".
func (t Token) String() string {
	parts := make([]string, len(t))
	for i, b := range t {
		parts[i] = hex.EncodeToString([]byte{b})
	}
	return strings.Join(parts, ":")
}

// ParseToken accepts colon-separated or plain hex.
func ParseToken(s string) (Token, error) {
	var t Token
	raw, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(s), ":", ""))
	if err != nil {
		return t, fmt.Errorf("token %q: %w", s, err)
	}
	if len(raw) != TokenSize {
		return t, fmt.Errorf("token %q: want %d bytes, got %d", s, TokenSize, len(raw))
	}
	copy(t[:], raw)
	return t, nil
}

// KindSpec is the per-board wiring of one request kind.
type KindSpec struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Channel int    `json:"channel" yaml:"channel"`
	Range   uint16 `json:"range" yaml:"range"`
}

// Catalog maps every RequestKind to its wiring and value range.
type Catalog struct {
	specs  [NumKinds]KindSpec
	tokens []Token
}

// NewCatalog builds the catalog from a board configuration.
func NewCatalog(cfg *BoardConfig) (*Catalog, error) {
	c := &Catalog{}
	for k := RequestKind(0); k < NumKinds; k++ {
		c.specs[k] = KindSpec{Enabled: true, Channel: -1}
	}

	for _, name := range cfg.DisabledKinds {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		c.specs[k].Enabled = false
	}

	for name, ch := range cfg.SwitchChannels {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if k.Family() != FamilySwitch {
			return nil, fmt.Errorf("switch channel for %s: kind is %s", k, k.Family())
		}
		if ch < 0 || ch > MaxChannel {
			return nil, fmt.Errorf("switch channel for %s: %d out of [0, %d]", k, ch, MaxChannel)
		}
		c.specs[k].Channel = ch
	}

	for _, s := range cfg.RFIDTokens {
		t, err := ParseToken(s)
		if err != nil {
			return nil, err
		}
		c.tokens = append(c.tokens, t)
	}
	if len(c.tokens) > 0xFFFF {
		return nil, fmt.Errorf("too many rfid tokens: %d", len(c.tokens))
	}

	for k := RequestKind(0); k < NumKinds; k++ {
		spec := &c.specs[k]
		switch k.Family() {
		case FamilyKeypad:
			spec.Range = KeypadRange
		case FamilyKnob:
			spec.Range = cfg.KnobRange
		case FamilyRFID:
			spec.Range = uint16(len(c.tokens))
			if len(c.tokens) == 0 {
				spec.Enabled = false
			}
		case FamilySwitch:
			spec.Range = SwitchRange
			if spec.Channel < 0 {
				// Unwired switches can never be completed.
				spec.Enabled = false
			}
		}
		if spec.Range == 0 {
			spec.Enabled = false
		}
	}

	if len(c.EnabledKinds()) == 0 {
		return nil, ErrNoKinds
	}
	return c, nil
}

// Spec returns the wiring for k.
func (c *Catalog) Spec(k RequestKind) KindSpec {
	if !k.Valid() {
		return KindSpec{Channel: -1}
	}
	return c.specs[k]
}

// Enabled reports whether k may be generated on this board.
func (c *Catalog) Enabled(k RequestKind) bool {
	return k.Valid() && c.specs[k].Enabled
}

// Range returns the number of distinct values for k.
func (c *Catalog) Range(k RequestKind) uint16 {
	return c.Spec(k).Range
}

// Channel returns the IO mux channel wired to a switch kind, or -1.
func (c *Catalog) Channel(k RequestKind) int {
	return c.Spec(k).Channel
}

// EnabledKinds lists enabled kinds in kind order.
func (c *Catalog) EnabledKinds() []RequestKind {
	var out []RequestKind
	for k := RequestKind(0); k < NumKinds; k++ {
		if c.specs[k].Enabled {
			out = append(out, k)
		}
	}
	return out
}

// Token returns the badge expected for an RFID request value.
func (c *Catalog) Token(value uint16) (Token, bool) {
	if int(value) >= len(c.tokens) {
		return Token{}, false
	}
	return c.tokens[value], true
}

// Tokens returns a copy of the token table.
func (c *Catalog) Tokens() []Token {
	return append([]Token(nil), c.tokens...)
}
