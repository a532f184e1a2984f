package service

import "errors"

var (
	ErrSelfChat  = errors.New("cannot chat with yourself")
	ErrEmptyText = errors.New("message text is required")
)
