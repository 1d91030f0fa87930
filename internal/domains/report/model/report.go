package model

import (
	"time"

	"github.com/google/uuid"

	memberModel "library-backend/internal/domains/member/model"
)

// TopN bounds the ranking lists of the statistics report
const TopN = 5

// CopyCatalogEntry is one copy with its edition, book and author names
type CopyCatalogEntry struct {
	CopyID    uuid.UUID `json:"copy_id" db:"copy_id"`
	Number    int       `json:"number" db:"number"`
	Available bool      `json:"available" db:"available"`
	EditionID uuid.UUID `json:"edition_id" db:"edition_id"`
	ISBN      string    `json:"isbn" db:"isbn"`
	Format    string    `json:"format" db:"format"`
	Language  string    `json:"language" db:"language"`
	BookID    uuid.UUID `json:"book_id" db:"book_id"`
	Title     string    `json:"title" db:"title"`
	Authors   []string  `json:"authors" db:"-"`
}

type EditionSummary struct {
	ID       uuid.UUID `json:"id" db:"id"`
	BookID   uuid.UUID `json:"-" db:"book_id"`
	ISBN     string    `json:"isbn" db:"isbn"`
	Year     int       `json:"year" db:"year"`
	Language string    `json:"language" db:"language"`
	Format   string    `json:"format" db:"format"`
}

// BookMatch is a title search hit with its editions
type BookMatch struct {
	BookID       uuid.UUID        `json:"book_id" db:"id"`
	Title        string           `json:"title" db:"title"`
	Authors      []string         `json:"authors" db:"-"`
	EditionCount int              `json:"edition_count" db:"-"`
	Editions     []EditionSummary `json:"editions" db:"-"`
}

// AuthorMatch is a book whose author snapshot matches an author-name search
type AuthorMatch struct {
	BookID          uuid.UUID `json:"book_id" db:"book_id"`
	Title           string    `json:"title" db:"title"`
	Authors         []string  `json:"authors" db:"-"`
	EditionCount    int       `json:"edition_count" db:"edition_count"`
	AvailableCopies int       `json:"available_copies" db:"available_copies"`
}

// ISBNMatch is an edition whose ISBN contains the searched fragment
type ISBNMatch struct {
	EditionID       uuid.UUID `json:"edition_id" db:"edition_id"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Year            int       `json:"year" db:"year"`
	Format          string    `json:"format" db:"format"`
	BookID          uuid.UUID `json:"book_id" db:"book_id"`
	Title           string    `json:"title" db:"title"`
	AvailableCopies int       `json:"available_copies" db:"available_copies"`
}

// LoanLine is a loan with what is still known of its copy.
// Copy fields are nil when the copy was force-deleted.
type LoanLine struct {
	LoanID     uuid.UUID  `json:"loan_id" db:"loan_id"`
	CopyID     uuid.UUID  `json:"copy_id" db:"copy_id"`
	CopyNumber *int       `json:"copy_number" db:"copy_number"`
	ISBN       *string    `json:"isbn" db:"isbn"`
	Title      *string    `json:"title" db:"title"`
	LoanDate   time.Time  `json:"loan_date" db:"loan_date"`
	DueDate    time.Time  `json:"due_date" db:"due_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"`
}

// MemberReport answers a national id lookup. ExactMatch is false when the
// member was found by substring
type MemberReport struct {
	Member     memberModel.Member `json:"member"`
	ExactMatch bool               `json:"exact_match"`
	Active     []LoanLine         `json:"active"`
	History    []LoanLine         `json:"history"`
}

type MonthCount struct {
	Month string `json:"month" db:"month"` // YYYY-MM
	Count int    `json:"count" db:"count"`
}

type BookCount struct {
	BookID uuid.UUID `json:"book_id" db:"book_id"`
	Title  string    `json:"title" db:"title"`
	Count  int       `json:"count" db:"count"`
}

type MemberCount struct {
	MemberID   uuid.UUID `json:"member_id" db:"member_id"`
	NationalID string    `json:"national_id" db:"national_id"`
	Name       string    `json:"name" db:"name"`
	Count      int       `json:"count" db:"count"`
}

type Statistics struct {
	TotalLoans      int           `json:"total_loans"`
	ActiveLoans     int           `json:"active_loans"`
	ReturnedLoans   int           `json:"returned_loans"`
	OverdueLoans    int           `json:"overdue_loans"`
	TotalCopies     int           `json:"total_copies"`
	AvailableCopies int           `json:"available_copies"`
	LoansPerMonth   []MonthCount  `json:"loans_per_month"`
	TopBooks        []BookCount   `json:"top_books"`
	TopMembers      []MemberCount `json:"top_members"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// Export is a rendered workbook ready to be served or uploaded
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}
