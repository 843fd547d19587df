package primitives

import (
	"fmt"
	"strconv"
)

// RequestKind names one physical action a board can be asked to perform.
type RequestKind uint8

const (
	KindKeypad RequestKind = iota
	KindRFID
	KindKnob
	KindPB1     // S1
	KindPB2     // S4
	KindPB3     // S9
	KindPB4     // S10
	KindToggle1 // S2
	KindToggle2 // S3
	KindToggle3 // S8
	KindToggle4 // S11
	KindTilt    // S6
	KindIR      // U1
	KindReed
	NumKinds // always last
)

// Family groups kinds that share a matching rule.
type Family uint8

const (
	FamilyKeypad Family = iota
	FamilyRFID
	FamilyKnob
	FamilySwitch
)

func (f Family) String() string {
	switch f {
	case FamilyKeypad:
		return "keypad"
	case FamilyRFID:
		return "rfid"
	case FamilyKnob:
		return "knob"
	case FamilySwitch:
		return "switch"
	}
	return "family(" + strconv.Itoa(int(f)) + ")"
}

// kindInfo is the static half of a kind's metadata; the board-specific half
// (channel, enabled, range) lives in Catalog.
type kindInfo struct {
	name   string
	family Family
	verb   string
	noun   string
	prep   string
}

var kindTable = [NumKinds]kindInfo{
	KindKeypad:  {"keypad", FamilyKeypad, "Set", "Thruster", "to"},
	KindRFID:    {"rfid", FamilyRFID, "Scan", "Badge", "for"},
	KindKnob:    {"knob", FamilyKnob, "Crank", "Distiller", "to"},
	KindPB1:     {"pb1", FamilySwitch, "Cycle", "Vaporizer", ""},
	KindPB2:     {"pb2", FamilySwitch, "Deactivate", "Network", ""},
	KindPB3:     {"pb3", FamilySwitch, "Engage", "Percolator", ""},
	KindPB4:     {"pb4", FamilySwitch, "Vent", "Combustor", ""},
	KindToggle1: {"toggle1", FamilySwitch, "Randomize", "Sequencer", ""},
	KindToggle2: {"toggle2", FamilySwitch, "Check", "Impeller", ""},
	KindToggle3: {"toggle3", FamilySwitch, "Deploy", "Airbag", ""},
	KindToggle4: {"toggle4", FamilySwitch, "Eject", "Pilot", ""},
	KindTilt:    {"tilt", FamilySwitch, "FLIP", "YOUR SHIP", ""},
	KindIR:      {"ir", FamilySwitch, "Flood", "Reflector", ""},
	KindReed:    {"reed", FamilySwitch, "Align", "Shields", ""},
}

// Valid reports whether k is a real kind.
func (k RequestKind) Valid() bool { return k < NumKinds }

// Family returns the matching rule family of the kind.
func (k RequestKind) Family() Family {
	if !k.Valid() {
		return FamilySwitch
	}
	return kindTable[k].family
}

func (k RequestKind) String() string {
	if !k.Valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindTable[k].name
}

// ParseKind resolves a kind by its lower-case name.
func ParseKind(name string) (RequestKind, error) {
	for i, info := range kindTable {
		if info.name == name {
			return RequestKind(i), nil
		}
	}
	return 0, fmt.Errorf("parse kind %q: %w", name, ErrUnknownKind)
}

// Describe renders the two display lines for a request, e.g. "Set Thruster" / "to 1234".
// Switch kinds only carry the first line.
func Describe(k RequestKind, value uint16) (line1, line2 string) {
	if !k.Valid() {
		return "", ""
	}
	info := kindTable[k]
	line1 = info.verb + " " + info.noun
	if info.prep != "" {
		line2 = info.prep + " " + strconv.Itoa(int(value))
	}
	return line1, line2
}

// MarshalText lets kinds appear by name in YAML and env configuration.
func (k RequestKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal kind %d: %w", uint8(k), ErrUnknownKind)
	}
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *RequestKind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
