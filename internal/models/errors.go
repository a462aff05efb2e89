package models

import "errors"

// Domain errors shared by the store and the projection
var (
	ErrInvalidScope   = errors.New("invalid scope")
	ErrUnknownStatus  = errors.New("status does not belong to the project")
	ErrTaskNotOnBoard = errors.New("task is not on the board")
)
