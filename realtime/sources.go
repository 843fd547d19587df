package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/spaceteam/internal/hal"
)

// Pump forwards every value from src as a kind event until ctx ends or src closes.
func Pump[T any](ctx context.Context, s *Scheduler, kind EventKind, src <-chan T) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-src:
			if !ok {
				return
			}
			if err := s.Post(kind, v); err != nil {
				s.logger.Printf("[Scheduler] drop %s event: %v", kind, err)
			}
		}
	}
}

// ScanTokens is the main-loop RFID scan. Every period it polls the reader;
// a captured badge is posted as a KindMainLoop event carrying the token.
// A read error other than "no badge" re-initialises the reader.
func ScanTokens(ctx context.Context, s *Scheduler, reader hal.TokenReader, period time.Duration) {
	if err := reader.Init(ctx); err != nil {
		s.logger.Printf("[Scheduler] rfid init: %v", err)
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		tok, err := reader.ReadToken(ctx)
		switch {
		case err == nil:
			if err := s.Post(KindMainLoop, tok); err != nil {
				s.logger.Printf("[Scheduler] drop token: %v", err)
			}
		case errors.Is(err, hal.ErrNoToken):
		case ctx.Err() != nil:
			return
		default:
			s.logger.Printf("[Scheduler] rfid read: %v; reinit", err)
			if err := reader.Init(ctx); err != nil {
				s.logger.Printf("[Scheduler] rfid reinit: %v", err)
			}
		}
	}
}
