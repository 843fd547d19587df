package core

import "errors"

var (
	ErrTableFull  = errors.New("active request table full")
	ErrRosterFull = errors.New("player roster full")
	ErrQueueFull  = errors.New("outbound queue full")
	ErrNoRadio    = errors.New("no radio link configured")
)
