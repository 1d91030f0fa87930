package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthorRef is the author snapshot embedded in a book: id and name as they
// were when the book was created or its author list last replaced.
// Renaming an author later does not rewrite existing snapshots.
type AuthorRef struct {
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`
	Name     string    `json:"name" db:"author_name"`
}

type Book struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Authors         []AuthorRef `json:"authors" db:"-"`
	PublicationYear *int        `json:"publication_year,omitempty" db:"publication_year"`
	Genre           *string     `json:"genre,omitempty" db:"genre"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// AuthorNames lists snapshot names in position order
func (b *Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return names
}

// BookAuthorRow is one row of book_authors
type BookAuthorRow struct {
	BookID   uuid.UUID `db:"book_id"`
	AuthorID uuid.UUID `db:"author_id"`
	Name     string    `db:"author_name"`
}

// AttachAuthors distributes book_authors rows (already ordered by position) onto books
func AttachAuthors(books []Book, rows []BookAuthorRow) {
	byBook := make(map[uuid.UUID][]AuthorRef, len(books))
	for _, row := range rows {
		byBook[row.BookID] = append(byBook[row.BookID], AuthorRef{AuthorID: row.AuthorID, Name: row.Name})
	}
	for i := range books {
		books[i].Authors = byBook[books[i].ID]
		if books[i].Authors == nil {
			books[i].Authors = []AuthorRef{}
		}
	}
}
