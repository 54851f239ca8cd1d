package auth

import "errors"

var (
	ErrUnauthenticated  = errors.New("auth: unauthenticated")
	ErrPermissionDenied = errors.New("auth: permission denied")
	ErrInvalidArgument  = errors.New("auth: invalid argument")
	ErrAlreadyExists    = errors.New("auth: already exists")
	ErrNotFound         = errors.New("auth: not found")
	ErrInternal         = errors.New("auth: internal error")
)
