package core

import (
	"context"
	"time"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/primitives"
)

type NoticeKind string

const (
	NoticeState     NoticeKind = "state"
	NoticeGenerated NoticeKind = "generated"
	NoticeCompleted NoticeKind = "completed"
	NoticeFailed    NoticeKind = "failed"
	NoticeHealth    NoticeKind = "health"
	NoticeJoined    NoticeKind = "joined"
)

// Notice is an observable engine occurrence.
type Notice struct {
	Board     primitives.BoardID  `json:"board" yaml:"board"`
	Kind      NoticeKind          `json:"kind" yaml:"kind"`
	State     spaceteam.GameState `json:"state" yaml:"state"`
	Request   primitives.Request  `json:"request,omitempty" yaml:"request,omitempty"`
	Health    uint8               `json:"health" yaml:"health"`
	Peer      primitives.BoardID  `json:"peer,omitempty" yaml:"peer,omitempty"`
	Timestamp time.Time           `json:"timestamp" yaml:"timestamp"`
}

// Publisher receives engine notices. Publish must not block the tick.
type Publisher interface {
	Publish(ctx context.Context, n Notice) error
	Close() error
}

func (e *Engine) publish(ctx context.Context, n Notice) {
	if e.publisher == nil {
		return
	}
	n.Board = e.self
	n.State = e.lifecycle.Current()
	n.Health = e.health
	n.Timestamp = time.Now()
	if err := e.publisher.Publish(ctx, n); err != nil {
		e.logger.Printf("[Engine] publish %s: %v", n.Kind, err)
	}
}
