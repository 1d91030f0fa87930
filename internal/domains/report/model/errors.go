package model

import (
	"fmt"

	"library-backend/internal/shared/apperror"
)

var (
	ErrEmptySearch = apperror.InvalidInput("search term is required")

	ErrMemberNotFound = apperror.NotFound("no member matches the national id")
)

func NewMemberNotFoundError(nationalID string) error {
	return fmt.Errorf("%w: %s", ErrMemberNotFound, nationalID)
}
