package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTerminalStatus is returned by UpdateStatus when the invoice is
	// cancelled. "cancelado" is terminal; no transition ever leaves it.
	ErrTerminalStatus = errors.New("invoice status is terminal")

	// ErrDuplicate is returned on unique-constraint violations.
	ErrDuplicate = errors.New("already exists")
)
