package domain

import "errors"

// Domain errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrLabelsNotList      = errors.New("labels is not a list")
	ErrLabelNotObject     = errors.New("label is not an object")
	ErrProcessorURLNotSet = errors.New("processor url not set")
	ErrNullReply          = errors.New("reply body is null")
)
