package model

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/shared/utils"
)

const (
	MaxISBNLength      = 32
	MaxLanguageLength  = 50
	MaxPublisherLength = 200
)

type CreateEditionRequest struct {
	ISBN      string    `json:"isbn" binding:"required"`
	Year      int       `json:"year" binding:"required"`
	Language  string    `json:"language" binding:"required"`
	BookID    uuid.UUID `json:"book_id" binding:"required"`
	Publisher *string   `json:"publisher"`
	Format    Format    `json:"format" binding:"required"`
	PageCount int       `json:"page_count" binding:"required"`
}

// Normalize trims ISBN, language and publisher in place
func (r *CreateEditionRequest) Normalize() {
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.Language = strings.TrimSpace(r.Language)
	r.Format = Format(strings.ToLower(strings.TrimSpace(string(r.Format))))
	r.Publisher = trimOptional(r.Publisher)
}

func (r CreateEditionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ISBN,
			validation.Required.Error("isbn is required"),
			validation.RuneLength(1, MaxISBNLength),
		),
		validation.Field(&r.Year, validation.By(editionYear)),
		validation.Field(&r.Language,
			validation.Required.Error("language is required"),
			validation.RuneLength(1, MaxLanguageLength),
		),
		validation.Field(&r.BookID, validation.By(utils.NotNilUUID("book id"))),
		validation.Field(&r.Publisher, validation.RuneLength(0, MaxPublisherLength)),
		validation.Field(&r.Format, validation.By(validFormat)),
		validation.Field(&r.PageCount, validation.By(positive)),
	)
}

type UpdateEditionRequest struct {
	ISBN      *string    `json:"isbn"`
	Year      *int       `json:"year"`
	Language  *string    `json:"language"`
	BookID    *uuid.UUID `json:"book_id"`
	Publisher *string    `json:"publisher"`
	Format    *Format    `json:"format"`
	PageCount *int       `json:"page_count"`
}

func (r *UpdateEditionRequest) Normalize() {
	r.ISBN = trimOptional(r.ISBN)
	r.Language = trimOptional(r.Language)
	r.Publisher = trimOptional(r.Publisher)
	if r.Format != nil {
		f := Format(strings.ToLower(strings.TrimSpace(string(*r.Format))))
		r.Format = &f
	}
}

func (r UpdateEditionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ISBN,
			validation.NilOrNotEmpty.Error("isbn cannot be blank"),
			validation.RuneLength(1, MaxISBNLength),
		),
		validation.Field(&r.Year, validation.By(editionYear)),
		validation.Field(&r.Language,
			validation.NilOrNotEmpty.Error("language cannot be blank"),
			validation.RuneLength(1, MaxLanguageLength),
		),
		validation.Field(&r.BookID, validation.By(utils.NotNilUUID("book id"))),
		validation.Field(&r.Publisher, validation.RuneLength(0, MaxPublisherLength)),
		validation.Field(&r.Format, validation.By(validFormat)),
		validation.Field(&r.PageCount, validation.By(positive)),
	)
}

// EditionFilter narrows List. ISBN is a substring match.
type EditionFilter struct {
	BookID uuid.UUID
	ISBN   string
	Limit  int
	Offset int
}

func editionYear(value interface{}) error {
	year, ok := utils.IntValue(value)
	if !ok {
		return nil
	}
	if maxYear := utils.MaxPublicationYear(); year < utils.MinPublicationYear || year > maxYear {
		return fmt.Errorf("must be between %d and %d", utils.MinPublicationYear, maxYear)
	}
	return nil
}

func validFormat(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	f, ok := v.(Format)
	if !ok {
		return nil
	}
	if !f.IsValid() {
		return fmt.Errorf("must be one of hardcover, paperback, ebook, audiobook")
	}
	return nil
}

func positive(value interface{}) error {
	n, ok := utils.IntValue(value)
	if ok && n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
