package apperrors

import "errors"

var (
	ErrInvalidTag      = errors.New("invalid tag")
	ErrIO              = errors.New("i/o failure")
	ErrParse           = errors.New("parse failure")
	ErrNoActiveSession = errors.New("no active session")
	ErrLocked          = errors.New("store is locked by another blazectl process")
)
