// BoardConfig is the per-board configuration: identity, role, radio settings,
// channel mapping, request ranges and tick cadences. On hardware these are
// build constants; the host build loads them from YAML with env overrides.
// Validation covers identity/role consistency, kind names, token table and ranges.

package primitives

import (
	"errors"
	"fmt"
	"time"
)

// Hardware constants shared by every board.
const (
	MaxADC        = 0x0400
	KeypadRange   = 10000
	SwitchRange   = 2
	TokenSize     = 4
	MaxChannel    = 15
	MaxKeypresses = 4
)

// BoardConfig defines one board. Zero-valued fields are filled by DefaultBoardConfig.
type BoardConfig struct {
	BoardID  BoardID `json:"board_id" yaml:"board_id" env:"SPACETEAM_BOARD_ID"`
	MasterID BoardID `json:"master_id" yaml:"master_id" env:"SPACETEAM_MASTER_ID"`
	// Role is optional; when set it must agree with BoardID == MasterID.
	Role Role `json:"role,omitempty" yaml:"role,omitempty" env:"SPACETEAM_ROLE"`

	RadioChannel uint8         `json:"radio_channel" yaml:"radio_channel" env:"SPACETEAM_RADIO_CHANNEL"`
	RadioRetries uint8         `json:"radio_retries" yaml:"radio_retries" env:"SPACETEAM_RADIO_RETRIES"`
	RetryDelay   time.Duration `json:"retry_delay" yaml:"retry_delay" env:"SPACETEAM_RETRY_DELAY"`

	DisabledKinds  []string       `json:"disabled_kinds,omitempty" yaml:"disabled_kinds,omitempty" env:"SPACETEAM_DISABLED_KINDS" envSeparator:","`
	SwitchChannels map[string]int `json:"switch_channels,omitempty" yaml:"switch_channels,omitempty"`
	BeginChannel   int            `json:"begin_channel" yaml:"begin_channel" env:"SPACETEAM_BEGIN_CHANNEL"`
	KnobRange      uint16         `json:"knob_range" yaml:"knob_range" env:"SPACETEAM_KNOB_RANGE"`
	RFIDTokens     []string       `json:"rfid_tokens,omitempty" yaml:"rfid_tokens,omitempty"`

	DebounceTicks   uint8 `json:"debounce_ticks" yaml:"debounce_ticks" env:"SPACETEAM_DEBOUNCE_TICKS"`
	RequestDeadline uint8 `json:"request_deadline" yaml:"request_deadline" env:"SPACETEAM_REQUEST_DEADLINE"`
	HealthMax       uint8 `json:"health_max" yaml:"health_max" env:"SPACETEAM_HEALTH_MAX"`

	// Master cadences, in poll ticks.
	PollEvery     uint16 `json:"poll_every" yaml:"poll_every" env:"SPACETEAM_POLL_EVERY"`
	DiscoverEvery uint16 `json:"discover_every" yaml:"discover_every" env:"SPACETEAM_DISCOVER_EVERY"`
}

// DefaultBoardConfig returns the stock configuration for a board.
func DefaultBoardConfig(id BoardID) BoardConfig {
	return BoardConfig{
		BoardID:      id,
		MasterID:     0,
		RadioChannel: 2,
		RadioRetries: 15,
		RetryDelay:   750 * time.Microsecond,
		SwitchChannels: map[string]int{
			"pb1": 0, "pb2": 1, "pb3": 2, "pb4": 3,
			"toggle1": 8, "toggle2": 9, "toggle3": 10, "toggle4": 11,
			"tilt": 12, "ir": 13, "reed": 14,
		},
		BeginChannel:    15,
		KnobRange:       10,
		RFIDTokens:      DefaultTokens(),
		DebounceTicks:   25,
		RequestDeadline: 8,
		HealthMax:       8,
		PollEvery:       50,
		DiscoverEvery:   250,
	}
}

// DefaultTokens returns the stock table of sixteen badge identifiers.
func DefaultTokens() []string {
	tokens := make([]string, 16)
	for i := range tokens {
		tokens[i] = Token{0x04, 0xA1, byte(0x30 + i*7), byte(i)}.String()
	}
	return tokens
}

// EffectiveRole returns the configured role, or derives it from the ids.
func (c *BoardConfig) EffectiveRole() Role {
	if c.Role != "" {
		return c.Role
	}
	if c.BoardID == c.MasterID {
		return RoleMaster
	}
	return RolePeer
}

// Validate checks the configuration:
// - Board and master ids address the radio table
// - Role agrees with BoardID == MasterID
// - Kind names parse, switch mapping names switch kinds, channels fit the mux
// - At least one kind stays enabled
// - Token table parses and is non-empty
// - Ranges and tick counts are non-zero
func (c *BoardConfig) Validate() error {
	if !c.BoardID.Valid() {
		return fmt.Errorf("board_id %d: %w", uint8(c.BoardID), ErrInvalidBoard)
	}
	if !c.MasterID.Valid() {
		return fmt.Errorf("master_id %d: %w", uint8(c.MasterID), ErrInvalidBoard)
	}
	switch c.Role {
	case "":
	case RoleMaster:
		if c.BoardID != c.MasterID {
			return fmt.Errorf("role master but board_id %d != master_id %d", c.BoardID, c.MasterID)
		}
	case RolePeer:
		if c.BoardID == c.MasterID {
			return fmt.Errorf("role peer but board_id %d is master_id", c.BoardID)
		}
	default:
		return fmt.Errorf("unknown role %q", c.Role)
	}
	if c.KnobRange == 0 || c.KnobRange > MaxADC {
		return fmt.Errorf("knob_range %d out of (0, %d]", c.KnobRange, MaxADC)
	}
	if c.DebounceTicks == 0 {
		return errors.New("debounce_ticks is required")
	}
	if c.RequestDeadline == 0 {
		return errors.New("request_deadline is required")
	}
	if c.HealthMax == 0 {
		return errors.New("health_max is required")
	}
	if c.PollEvery == 0 || c.DiscoverEvery == 0 {
		return errors.New("poll_every and discover_every are required")
	}
	if c.BeginChannel < 0 || c.BeginChannel > MaxChannel {
		return fmt.Errorf("begin_channel %d out of [0, %d]", c.BeginChannel, MaxChannel)
	}
	if _, err := NewCatalog(c); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}
