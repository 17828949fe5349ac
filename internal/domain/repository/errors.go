package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateIdentity = errors.New("duplicate identity")
)
