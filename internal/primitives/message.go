package primitives

import "strconv"

// MsgKind is the first byte of every packet.
type MsgKind uint8

const (
	MsgNewRequest MsgKind = iota
	MsgRequestCompleted
	MsgRequestFailed
	MsgPoll
	MsgHealth
	MsgNetworking
	MsgBegin
	NumMsgKinds // always last
)

var msgNames = [NumMsgKinds]string{
	MsgNewRequest:       "new-request",
	MsgRequestCompleted: "request-completed",
	MsgRequestFailed:    "request-failed",
	MsgPoll:             "poll",
	MsgHealth:           "health",
	MsgNetworking:       "networking",
	MsgBegin:            "begin",
}

func (m MsgKind) Valid() bool { return m < NumMsgKinds }

func (m MsgKind) String() string {
	if !m.Valid() {
		return "msg(" + strconv.Itoa(int(m)) + ")"
	}
	return msgNames[m]
}

// Propagates reports whether the Master re-sends this kind to the whole roster.
func (m MsgKind) Propagates() bool {
	switch m {
	case MsgHealth, MsgNetworking, MsgBegin:
		return true
	}
	return false
}
