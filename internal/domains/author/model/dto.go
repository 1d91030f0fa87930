package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxNameLength = 200

type CreateAuthorRequest struct {
	Name string `json:"name" binding:"required"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, MaxNameLength),
		),
	)
}

type UpdateAuthorRequest struct {
	Name *string `json:"name"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("name cannot be blank"),
			validation.RuneLength(1, MaxNameLength),
		),
	)
}

// AuthorFilter narrows List; Search is a case-insensitive substring of the name
type AuthorFilter struct {
	Search string
	Limit  int
	Offset int
}
