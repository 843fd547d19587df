package primitives

import "fmt"

// MaxPlayers bounds the roster, the Active Request Table and the radio address table.
const MaxPlayers = 8

// BoardID identifies one station.
type BoardID uint8

// Valid reports whether the id addresses a slot in the address table.
func (b BoardID) Valid() bool { return b < MaxPlayers }

func (b BoardID) String() string { return fmt.Sprintf("board%d", uint8(b)) }

// Role decides how a board routes: the Master addresses anyone and relays,
// a Peer only answers the Master through acknowledgement payloads.
type Role string

const (
	RoleMaster Role = "master"
	RolePeer   Role = "peer"
)

// Address is a five-byte transceiver pipe address.
type Address [5]byte

// playerAddresses is the fixed radio address table, one row per board.
var playerAddresses = [MaxPlayers]Address{
	{0x12, 0x34, 0x56, 0x78, 0x9A},
	{0x34, 0x56, 0x78, 0x9A, 0xBC},
	{0x56, 0x78, 0x9A, 0xBC, 0xDE},
	{0x78, 0x9A, 0xBC, 0xDE, 0xF0},
	{0x9A, 0xBC, 0xDE, 0xF0, 0x12},
	{0xBC, 0xDE, 0xF0, 0x12, 0x34},
	{0xDE, 0xF0, 0x12, 0x34, 0x45},
	{0xF0, 0x12, 0x34, 0x45, 0x67},
}

// AddressOf returns the pipe address for a board.
func AddressOf(b BoardID) (Address, error) {
	if !b.Valid() {
		return Address{}, fmt.Errorf("address of %d: %w", uint8(b), ErrInvalidBoard)
	}
	return playerAddresses[b], nil
}

// BoardAt maps a pipe address back to its board.
func BoardAt(a Address) (BoardID, bool) {
	for i, addr := range playerAddresses {
		if addr == a {
			return BoardID(i), true
		}
	}
	return 0, false
}
