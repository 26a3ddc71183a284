package postgres

import "github.com/pkg/errors"

var (
	ErrNotFound      = errors.New("row not found")
	ErrAlreadyExists = errors.New("row already exists")
	ErrNoOpenSession = errors.New("no active session")
)
