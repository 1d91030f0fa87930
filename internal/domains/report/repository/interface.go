package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	memberModel "library-backend/internal/domains/member/model"
	"library-backend/internal/domains/report/model"
)

// RepositoryInterface holds the read-only cross-entity queries
type RepositoryInterface interface {
	CopiesCatalog(ctx context.Context) ([]model.CopyCatalogEntry, error)

	// SearchBooks matches titles case-insensitively by substring
	SearchBooks(ctx context.Context, title string) ([]model.BookMatch, error)

	// SearchAuthors matches the author names snapshotted on books
	SearchAuthors(ctx context.Context, name string) ([]model.AuthorMatch, error)

	SearchISBN(ctx context.Context, fragment string) ([]model.ISBNMatch, error)

	// FindMember tries an exact national id first, then a substring match.
	// exact reports which one hit; a nil member means neither did
	FindMember(ctx context.Context, nationalID string) (member *memberModel.Member, exact bool, err error)

	MemberLoanLines(ctx context.Context, memberID uuid.UUID, active bool) ([]model.LoanLine, error)

	// Statistics aggregates loans and copies; overdue is measured at now
	Statistics(ctx context.Context, now time.Time) (*model.Statistics, error)
}
