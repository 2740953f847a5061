package domain

import (
	"errors"
	"time"
)

var (
	ErrUsernameLength = errors.New("username must be between 3 and 20 characters")
	ErrEmptyPassword  = errors.New("password cannot be empty")
)

type User struct {
	ID             int64
	Username       string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateUsername enforces the 3-20 character bound shared by registration
// and login input.
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 20 {
		return ErrUsernameLength
	}
	return nil
}

// TokenPair is the access/refresh pair issued on registration, login and
// refresh. TokenType is always "Bearer".
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}
