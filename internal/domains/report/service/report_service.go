package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	loanModel "library-backend/internal/domains/loan/model"
	loanService "library-backend/internal/domains/loan/service"
	"library-backend/internal/domains/report/model"
	"library-backend/internal/domains/report/repository"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

const (
	statisticsCacheKey = "report:statistics"
	reportCachePattern = "report:*"
)

type reportService struct {
	repo     repository.RepositoryInterface
	loans    loanService.ServiceInterface
	cache    cache.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewReportService(
	repo repository.RepositoryInterface,
	loans loanService.ServiceInterface,
	c cache.Cache,
	cacheTTL time.Duration,
) ServiceInterface {
	return &reportService{
		repo:     repo,
		loans:    loans,
		cache:    c,
		cacheTTL: cacheTTL,
		now:      utils.Now,
	}
}

func (s *reportService) CopiesCatalog(ctx context.Context) ([]model.CopyCatalogEntry, error) {
	return s.repo.CopiesCatalog(ctx)
}

func (s *reportService) SearchBooks(ctx context.Context, title string) ([]model.BookMatch, error) {
	if strings.TrimSpace(title) == "" {
		return []model.BookMatch{}, nil
	}
	return s.repo.SearchBooks(ctx, title)
}

func (s *reportService) SearchAuthors(ctx context.Context, name string) ([]model.AuthorMatch, error) {
	if strings.TrimSpace(name) == "" {
		return []model.AuthorMatch{}, nil
	}
	return s.repo.SearchAuthors(ctx, name)
}

func (s *reportService) SearchISBN(ctx context.Context, fragment string) ([]model.ISBNMatch, error) {
	if strings.TrimSpace(fragment) == "" {
		return []model.ISBNMatch{}, nil
	}
	return s.repo.SearchISBN(ctx, fragment)
}

func (s *reportService) MemberReport(ctx context.Context, nationalID string) (*model.MemberReport, error) {
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return nil, model.ErrEmptySearch
	}

	member, exact, err := s.repo.FindMember(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, model.NewMemberNotFoundError(nationalID)
	}

	active, err := s.repo.MemberLoanLines(ctx, member.ID, true)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.MemberLoanLines(ctx, member.ID, false)
	if err != nil {
		return nil, err
	}

	return &model.MemberReport{
		Member:     *member,
		ExactMatch: exact,
		Active:     active,
		History:    history,
	}, nil
}

func (s *reportService) Statistics(ctx context.Context) (*model.Statistics, error) {
	var stats model.Statistics
	if found, err := s.cache.Get(ctx, statisticsCacheKey, &stats); err == nil && found {
		return &stats, nil
	}

	fresh, err := s.repo.Statistics(ctx, s.now())
	if err != nil {
		return nil, err
	}

	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, statisticsCacheKey, fresh, s.cacheTTL); err != nil {
			logger.Warn("Failed to cache statistics", map[string]interface{}{"error": err.Error()})
		}
	}
	return fresh, nil
}

func (s *reportService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, reportCachePattern); err != nil {
		return fmt.Errorf("failed to invalidate report cache: %w", err)
	}
	return nil
}

func (s *reportService) Consistency(ctx context.Context) (*loanModel.ReconcileResult, error) {
	return s.loans.Reconcile(ctx, true)
}
