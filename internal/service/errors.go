package service

import "errors"

var (
	ErrNotFound     = errors.New("block configuration not found")
	ErrForbidden    = errors.New("you do not have permission to modify this block")
	ErrUnauthorized = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidUser  = errors.New("invalid user identity")

	ErrBlockLimitReached = errors.New("block limit reached")
)
