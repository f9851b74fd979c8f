package applications

import "errors"

var (
	ErrNotFound          = errors.New("application not found")
	ErrClientIDExhausted = errors.New("could not generate a unique client id")
	ErrDuplicateClientID = errors.New("client id already exists")
)
