package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxNationalIDLength = 32
	MaxNameLength       = 200
)

type CreateMemberRequest struct {
	NationalID string `json:"national_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

func (r CreateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NationalID,
			validation.Required.Error("national id is required"),
			validation.RuneLength(1, MaxNationalIDLength),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, MaxNameLength),
		),
	)
}

type UpdateMemberRequest struct {
	NationalID *string `json:"national_id"`
	Name       *string `json:"name"`
}

func (r UpdateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NationalID,
			validation.NilOrNotEmpty.Error("national id cannot be blank"),
			validation.RuneLength(1, MaxNationalIDLength),
		),
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("name cannot be blank"),
			validation.RuneLength(1, MaxNameLength),
		),
	)
}

// MemberFilter narrows List; Search matches name or national id as a substring
type MemberFilter struct {
	Search string
	Limit  int
	Offset int
}
