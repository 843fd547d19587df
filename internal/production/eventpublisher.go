package production

import (
	"context"
	"sync"

	"github.com/comalice/spaceteam/internal/core"
)

// ChannelPublisher forwards engine notices to a Go channel.
// Publish never blocks the tick: a full channel drops the notice.
type ChannelPublisher struct {
	mu      sync.Mutex
	ch      chan<- core.Notice
	closed  bool
	dropped uint64
}

var _ core.Publisher = (*ChannelPublisher)(nil)

func NewChannelPublisher(ch chan<- core.Notice) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, n core.Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	select {
	case p.ch <- n:
	default:
		p.dropped++
	}
	return nil
}

// Dropped counts notices lost to backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close closes the channel; later publishes are discarded.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
