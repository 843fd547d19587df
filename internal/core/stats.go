package core

import (
	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/primitives"
)

// Stats counts what the engine did and what it had to drop.
type Stats struct {
	Generated   uint64 `json:"generated" yaml:"generated"`
	Completed   uint64 `json:"completed" yaml:"completed"`
	Failed      uint64 `json:"failed" yaml:"failed"`
	Transmitted uint64 `json:"transmitted" yaml:"transmitted"`
	Received    uint64 `json:"received" yaml:"received"`
	Relayed     uint64 `json:"relayed" yaml:"relayed"`
	Retransmits uint64 `json:"retransmits" yaml:"retransmits"`
	RadioDrops  uint64 `json:"radio_drops" yaml:"radio_drops"`
	TableDrops  uint64 `json:"table_drops" yaml:"table_drops"`
	QueueDrops  uint64 `json:"queue_drops" yaml:"queue_drops"`
	AckDrops    uint64 `json:"ack_drops" yaml:"ack_drops"`
	BadPackets  uint64 `json:"bad_packets" yaml:"bad_packets"`
}

// Snapshot is a point-in-time view of one board for debugging and dumps.
type Snapshot struct {
	Board    primitives.BoardID   `json:"board" yaml:"board"`
	Role     primitives.Role      `json:"role" yaml:"role"`
	State    string               `json:"state" yaml:"state"`
	Health   uint8                `json:"health" yaml:"health"`
	Armed    bool                 `json:"armed" yaml:"armed"`
	Roster   []primitives.BoardID `json:"roster" yaml:"roster"`
	Requests []primitives.Request `json:"requests,omitempty" yaml:"requests,omitempty"`
	Busy     bool                 `json:"busy" yaml:"busy"`
	Queued   int                  `json:"queued" yaml:"queued"`
	LFSR     uint16               `json:"lfsr" yaml:"lfsr"`
	Stats    Stats                `json:"stats" yaml:"stats"`
}

// GameState parses the snapshot state back into the lifecycle type.
func (s Snapshot) GameState() spaceteam.GameState {
	for _, st := range []spaceteam.GameState{spaceteam.StateWaiting, spaceteam.StateStarted, spaceteam.StateOver} {
		if st.String() == s.State {
			return st
		}
	}
	return spaceteam.StateWaiting
}
