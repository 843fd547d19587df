package primitives

import (
	"encoding/binary"
	"fmt"
)

// Packet layout (fixed size, every pipe is configured for exactly PacketSize):
//
//	+---------+--------+-----------+---------+-------------+
//	| MsgKind | Sender | Recipient | ReqKind |    Value    |
//	+---------+--------+-----------+---------+-------------+
//	| 1 byte  | 1 byte |  1 byte   | 1 byte  | 2 bytes LE  |
//	+---------+--------+-----------+---------+-------------+
const PacketSize = 6

type Packet struct {
	Kind      MsgKind
	Sender    BoardID
	Recipient BoardID
	ReqKind   RequestKind
	Value     uint16
}

// Encode writes the packet into a PacketSize array.
func (p Packet) Encode() [PacketSize]byte {
	var data [PacketSize]byte
	data[0] = byte(p.Kind)
	data[1] = byte(p.Sender)
	data[2] = byte(p.Recipient)
	data[3] = byte(p.ReqKind)
	binary.LittleEndian.PutUint16(data[4:6], p.Value)
	return data
}

// DecodePacket parses an on-air payload. The length must be exactly PacketSize.
func DecodePacket(data []byte) (Packet, error) {
	if len(data) != PacketSize {
		return Packet{}, fmt.Errorf("decode packet of %d bytes: %w", len(data), ErrPayloadSize)
	}
	p := Packet{
		Kind:      MsgKind(data[0]),
		Sender:    BoardID(data[1]),
		Recipient: BoardID(data[2]),
		ReqKind:   RequestKind(data[3]),
		Value:     binary.LittleEndian.Uint16(data[4:6]),
	}
	if !p.Kind.Valid() || !p.ReqKind.Valid() {
		return Packet{}, fmt.Errorf("decode packet kind=%d req=%d: %w", data[0], data[3], ErrUnknownKind)
	}
	if !p.Sender.Valid() || !p.Recipient.Valid() {
		return Packet{}, fmt.Errorf("decode packet sender=%d recipient=%d: %w", data[1], data[2], ErrInvalidBoard)
	}
	return p, nil
}

func (p Packet) String() string {
	return fmt.Sprintf("%s %d->%d %s=%d", p.Kind, p.Sender, p.Recipient, p.ReqKind, p.Value)
}
