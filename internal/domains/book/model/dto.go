package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/shared/utils"
)

const (
	MaxTitleLength = 500
	MaxGenreLength = 100
)

type CreateBookRequest struct {
	Title           string      `json:"title" binding:"required"`
	AuthorIDs       []uuid.UUID `json:"author_ids" binding:"required"`
	PublicationYear *int        `json:"publication_year"`
	Genre           *string     `json:"genre"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, MaxTitleLength),
		),
		validation.Field(&r.AuthorIDs,
			validation.Required.Error("at least one author is required"),
			validation.By(distinctAuthors),
		),
		validation.Field(&r.PublicationYear, validation.By(publicationYear)),
		validation.Field(&r.Genre, validation.RuneLength(0, MaxGenreLength)),
	)
}

// UpdateBookRequest replaces the author snapshot when AuthorIDs is non-nil
type UpdateBookRequest struct {
	Title           *string     `json:"title"`
	AuthorIDs       []uuid.UUID `json:"author_ids"`
	PublicationYear *int        `json:"publication_year"`
	Genre           *string     `json:"genre"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("title cannot be blank"),
			validation.RuneLength(1, MaxTitleLength),
		),
		validation.Field(&r.AuthorIDs,
			validation.When(r.AuthorIDs != nil, validation.Required.Error("at least one author is required")),
			validation.By(distinctAuthors),
		),
		validation.Field(&r.PublicationYear, validation.By(publicationYear)),
		validation.Field(&r.Genre, validation.RuneLength(0, MaxGenreLength)),
	)
}

// BookFilter narrows List. Title is a case-insensitive substring.
type BookFilter struct {
	Title    string
	AuthorID uuid.UUID
	Limit    int
	Offset   int
}

func publicationYear(value interface{}) error {
	year, ok := utils.IntValue(value)
	if !ok {
		return nil
	}
	if maxYear := utils.MaxPublicationYear(); year < utils.MinPublicationYear || year > maxYear {
		return fmt.Errorf("must be between %d and %d", utils.MinPublicationYear, maxYear)
	}
	return nil
}

func distinctAuthors(value interface{}) error {
	ids, _ := value.([]uuid.UUID)
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return fmt.Errorf("author id cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("author %s listed twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
