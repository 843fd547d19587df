package primitives

import "errors"

var (
	ErrPayloadSize  = errors.New("invalid payload size")
	ErrUnknownKind  = errors.New("unknown message or request kind")
	ErrInvalidBoard = errors.New("invalid board id")
	ErrNoKinds      = errors.New("no request kinds enabled")
)
