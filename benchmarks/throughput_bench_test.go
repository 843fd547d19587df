package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/realtime"
)

// BenchmarkPollTick measures the 1 kHz interrupt body: LED step, request
// checks over the table and the Master cadence. It must stay far below 1ms.
func BenchmarkPollTick(b *testing.B) {
	for _, extra := range []int{0, 3, 7} {
		b.Run(fmt.Sprintf("requests_%d", extra+1), func(b *testing.B) {
			eng, _, stub := NewStartedEngine(extra)
			ctx := context.Background()
			poll := realtime.Event{Kind: realtime.KindPoll}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				eng.HandleEvent(ctx, poll)
				if i%64 == 0 {
					drain(stub)
				}
			}
		})
	}
}

// BenchmarkDeadlineTick measures the 0.5 Hz deadline pass, including the
// failure path when a request expires.
func BenchmarkDeadlineTick(b *testing.B) {
	eng, _, stub := NewStartedEngine(3)
	ctx := context.Background()
	deadline := realtime.Event{Kind: realtime.KindDeadline}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.HandleEvent(ctx, deadline)
		drain(stub)
	}
}

func BenchmarkPacketEncode(b *testing.B) {
	p := primitives.Packet{Kind: primitives.MsgNewRequest, Sender: 3, Recipient: 0, ReqKind: primitives.KindKeypad, Value: 9876}
	b.ReportAllocs()
	var sink [primitives.PacketSize]byte
	for i := 0; i < b.N; i++ {
		sink = p.Encode()
	}
	_ = sink
}

func BenchmarkPacketDecode(b *testing.B) {
	data := primitives.Packet{Kind: primitives.MsgHealth, Sender: 2, Recipient: 5}.Encode()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := primitives.DecodePacket(data[:]); err != nil {
			b.Fatal(err)
		}
	}
}
