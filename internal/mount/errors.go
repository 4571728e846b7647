package mount

import "errors"

var (
	ErrMountNotFound  = errors.New("mount not found")
	ErrInvalidMountID = errors.New("invalid mount id")
	ErrRegistryClosed = errors.New("mount registry closed")
	ErrInvalidBackend = errors.New("invalid mount backend")
	ErrPersistFailed  = errors.New("failed to persist mount snapshot")
)
