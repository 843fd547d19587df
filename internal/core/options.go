package core

import (
	"log"

	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/radio"
)

// Option applies configuration to Engine via functional options pattern.
type Option func(*Engine)

// WithLogger configures the Engine logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRadio configures the transceiver link.
func WithRadio(l radio.Link) Option {
	return func(e *Engine) {
		e.link = l
	}
}

func WithDisplay(d hal.Display) Option {
	return func(e *Engine) {
		e.display = d
	}
}

func WithSensors(s hal.Sensors) Option {
	return func(e *Engine) {
		e.sensors = s
	}
}

func WithLEDs(l hal.LEDs) Option {
	return func(e *Engine) {
		e.leds = l
	}
}

// WithSeeder configures the counter sampled for the generator seed.
func WithSeeder(s Seeder) Option {
	return func(e *Engine) {
		e.seeder = s
	}
}

// WithPublisher configures the sink for engine notices.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}
