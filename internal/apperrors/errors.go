package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserDisabled      = errors.New("user is disabled")

	// Returned on any login failure: wrong password, unknown username or
	// disabled account. Callers must not be able to tell which one it was.
	ErrAuthenticationFailed = errors.New("authentication failed")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrTaskNotFound = errors.New("task not found")
)
