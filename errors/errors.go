package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyWords       = fmt.Errorf("no censored words have been found")
	ErrDuplicateSession = fmt.Errorf("session id already registered")

	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrNotAuthor       = fmt.Errorf("requester is not the author")

	ErrMalformedFrame = fmt.Errorf("malformed frame")
	ErrUnknownAction  = fmt.Errorf("unknown action type")

	ErrUserAlreadyExists  = fmt.Errorf("username already exists")
	ErrUnknownUser        = fmt.Errorf("user not found")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidRequest     = fmt.Errorf("invalid registration request")
	ErrInvalidToken       = fmt.Errorf("invalid token")
)
