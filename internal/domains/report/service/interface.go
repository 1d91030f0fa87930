package service

import (
	"context"

	loanModel "library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/report/model"
)

// ServiceInterface exposes the read-only reports over the whole catalogue
type ServiceInterface interface {
	CopiesCatalog(ctx context.Context) ([]model.CopyCatalogEntry, error)

	// SearchBooks, SearchAuthors and SearchISBN return no rows for a blank term
	SearchBooks(ctx context.Context, title string) ([]model.BookMatch, error)
	SearchAuthors(ctx context.Context, name string) ([]model.AuthorMatch, error)
	SearchISBN(ctx context.Context, fragment string) ([]model.ISBNMatch, error)

	// MemberReport looks up by exact national id, then by substring
	MemberReport(ctx context.Context, nationalID string) (*model.MemberReport, error)

	// Statistics is served from cache while fresh
	Statistics(ctx context.Context) (*model.Statistics, error)

	// InvalidateCache drops every cached report so the next read recomputes
	InvalidateCache(ctx context.Context) error

	// ExportStatistics renders statistics and the copies catalog as an xlsx workbook
	ExportStatistics(ctx context.Context) (*model.Export, error)

	// Consistency lists availability mismatches without repairing them
	Consistency(ctx context.Context) (*loanModel.ReconcileResult, error)
}
