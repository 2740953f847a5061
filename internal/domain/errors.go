package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAnimalNotFound = errors.New("animal not found")

	ErrUsernameTaken  = errors.New("username is already taken")
	ErrAlreadyAdopted = errors.New("animal is already adopted by this user")
	ErrNotOwned       = errors.New("animal is not owned by this user")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrUnauthorized       = errors.New("unauthorized")
)
