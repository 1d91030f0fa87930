package model

import (
	"time"

	"github.com/google/uuid"
)

// Format is the physical or digital form of an edition
type Format string

const (
	FormatHardcover Format = "hardcover"
	FormatPaperback Format = "paperback"
	FormatEbook     Format = "ebook"
	FormatAudiobook Format = "audiobook"
)

// Formats lists every accepted Format
var Formats = []Format{FormatHardcover, FormatPaperback, FormatEbook, FormatAudiobook}

func (f Format) IsValid() bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

type Edition struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ISBN      string    `json:"isbn" db:"isbn"`
	Year      int       `json:"year" db:"year"`
	Language  string    `json:"language" db:"language"`
	BookID    uuid.UUID `json:"book_id" db:"book_id"`
	Publisher *string   `json:"publisher,omitempty" db:"publisher"`
	Format    Format    `json:"format" db:"format"`
	PageCount int       `json:"page_count" db:"page_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
