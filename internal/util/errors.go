// internal/util/errors.go
package util

import "errors"

// Business error kinds returned by the service layer. Handlers map each kind
// to a response status category; anything unrecognized is treated as an
// internal error and never exposed to clients.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrConflict           = errors.New("already exists")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrLastContact        = errors.New("cannot remove the last contact")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// IsError reports whether err matches the target error anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
