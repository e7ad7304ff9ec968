package models

import "errors"

// Common errors used throughout the application. Services wrap these so
// callers can tell validation failures, missing records and storage faults
// apart with errors.Is instead of a bare boolean.
var (
	ErrArrangementNotFound = errors.New("arrangement not found")
	ErrFlowerLineNotFound  = errors.New("arrangement flower not found")
	ErrFlowerTypeNotFound  = errors.New("flower type not found")
	ErrStyleNotFound       = errors.New("presentation style not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientStock   = errors.New("insufficient flower stock")
	ErrStorageFailure      = errors.New("storage operation failed")
)
