package room

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrAlreadyJoined     = errors.New("player already in room")
	ErrGameInProgress    = errors.New("game already in progress")
	ErrInvalidPhase      = errors.New("operation not valid in current phase")
	ErrEmptyRoomName     = errors.New("room name must not be empty")
)
