package identity

import "errors"

var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates the email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Provider is the identity provider capability contract. It owns credential
// storage and verification; nothing else in the system sees passwords.
// Register assigns the user id that keys the directory's profile record.
type Provider interface {
	Register(email, password string) (userID string, err error)
	Login(email, password string) (userID string, err error)
}
