package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("not the owner of this product")
	ErrNotFound           = errors.New("not found")
)
