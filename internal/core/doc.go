// Package core is the board engine: request generation, the active request
// table, completion checking, the deadline and health lifecycle, the LED
// multiplexer and the message router.
//
// An Engine owns all game state and is driven by a realtime.Scheduler through
// HandleEvent. Handlers never return errors across the tick boundary; they
// log and count in Stats.
package core
