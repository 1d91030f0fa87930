package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
	memberRepo "library-backend/internal/domains/member/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/logger"
)

type loanService struct {
	repo       repository.RepositoryInterface
	memberRepo memberRepo.RepositoryInterface
	policy     model.FinePolicy
	now        func() time.Time
}

func NewLoanService(
	repo repository.RepositoryInterface,
	members memberRepo.RepositoryInterface,
	policy model.FinePolicy,
) ServiceInterface {
	return &loanService{
		repo:       repo,
		memberRepo: members,
		policy:     policy,
		now:        utils.Now,
	}
}

// ════════════════════════════════════════════════════════════════
// CHECKOUT / RETURN
// ════════════════════════════════════════════════════════════════

func (s *loanService) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	now := s.now()
	dueDate, err := s.resolveDueDate(req.DueDate, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.GetByID(ctx, req.MemberID); err != nil {
		return nil, err
	}

	l := &model.Loan{
		ID:       uuid.New(),
		MemberID: req.MemberID,
		CopyID:   req.CopyID,
		LoanDate: now,
		DueDate:  dueDate,
	}

	if err := s.repo.Checkout(ctx, l); err != nil {
		return nil, err
	}

	logger.Info("Copy checked out", map[string]interface{}{
		"loan_id":   l.ID.String(),
		"member_id": l.MemberID.String(),
		"copy_id":   l.CopyID.String(),
		"due_date":  l.DueDate.Format(model.DateLayout),
	})

	s.policy.Annotate(l, now)
	return l, nil
}

// resolveDueDate maps a calendar date to 23:59:59 UTC of that day.
// An empty date means today plus the default loan period
func (s *loanService) resolveDueDate(raw string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	day := today.AddDate(0, 0, s.policy.DefaultDays)
	if raw != "" {
		parsed, err := time.Parse(model.DateLayout, raw)
		if err != nil {
			return time.Time{}, apperror.InvalidInput("due_date: must be a date formatted YYYY-MM-DD")
		}
		if parsed.Before(today) {
			return time.Time{}, model.ErrDueDateInPast
		}
		day = parsed
	}

	return day.Add(24*time.Hour - time.Second), nil
}

func (s *loanService) Return(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	if id == uuid.Nil {
		return nil, model.ErrLoanNotFound
	}

	now := s.now()
	l, err := s.repo.Return(ctx, id, now)
	if err != nil {
		return nil, err
	}

	s.policy.Annotate(l, now)
	logger.Info("Loan returned", map[string]interface{}{
		"loan_id":      l.ID.String(),
		"copy_id":      l.CopyID.String(),
		"days_overdue": l.DaysOverdue,
		"fine":         l.Fine.StringFixed(2),
	})

	return l, nil
}

// ════════════════════════════════════════════════════════════════
// QUERIES
// ════════════════════════════════════════════════════════════════

func (s *loanService) GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	if id == uuid.Nil {
		return nil, model.ErrLoanNotFound
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.policy.Annotate(l, s.now())
	return l, nil
}

func (s *loanService) List(ctx context.Context, filter model.LoanFilter) ([]model.Loan, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, apperror.Validation(err)
	}
	if filter.Limit <= 0 || filter.Limit > utils.MaxLimit {
		filter.Limit = utils.DefaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	now := s.now()
	loans, total, err := s.repo.List(ctx, filter, now)
	if err != nil {
		return nil, 0, err
	}

	s.annotateAll(loans, now)
	return loans, total, nil
}

func (s *loanService) MemberLoans(ctx context.Context, memberID uuid.UUID) (*model.MemberLoans, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.annotateAll(loans, now)

	result := &model.MemberLoans{
		MemberID: memberID,
		Active:   []model.Loan{},
		History:  []model.Loan{},
	}
	for _, l := range loans {
		if l.IsActive() {
			result.Active = append(result.Active, l)
		} else {
			result.History = append(result.History, l)
		}
	}

	return result, nil
}

func (s *loanService) annotateAll(loans []model.Loan, now time.Time) {
	for i := range loans {
		s.policy.Annotate(&loans[i], now)
	}
}

// ════════════════════════════════════════════════════════════════
// MAINTENANCE
// ════════════════════════════════════════════════════════════════

func (s *loanService) Reconcile(ctx context.Context, dryRun bool) (*model.ReconcileResult, error) {
	mismatches, err := s.repo.FindMismatches(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.ReconcileResult{DryRun: dryRun, Mismatches: mismatches}
	if dryRun {
		return result, nil
	}

	for _, m := range mismatches {
		fixed, err := s.repo.FixAvailability(ctx, m.CopyID, m.Expected(), s.now())
		if err != nil {
			return nil, err
		}
		if !fixed {
			continue
		}

		result.Fixed++
		logger.Info("Copy availability repaired", map[string]interface{}{
			"copy_id":      m.CopyID.String(),
			"available":    m.Expected(),
			"active_loans": m.ActiveLoans,
		})
	}

	return result, nil
}

func (s *loanService) OverdueSummary(ctx context.Context, now time.Time) (*model.OverdueSummary, error) {
	loans, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := &model.OverdueSummary{
		Count:     len(loans),
		TotalFine: decimal.Zero,
		Loans:     loans,
		AsOf:      now,
	}
	for i := range loans {
		s.policy.Annotate(&loans[i], now)
		summary.TotalFine = summary.TotalFine.Add(loans[i].Fine)
	}

	return summary, nil
}
