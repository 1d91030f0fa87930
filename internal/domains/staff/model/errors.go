package model

import (
	"errors"
	"fmt"

	"library-backend/internal/shared/apperror"
)

var (
	ErrStaffNotFound = apperror.NotFound("staff account not found")

	ErrDuplicateUsername = apperror.Conflict("username already taken")

	// ErrInvalidCredentials does not tell an unknown username from a wrong password
	ErrInvalidCredentials = apperror.Unauthorized("invalid username or password")
)

func NewDuplicateUsernameError(username string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateUsername, username)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
