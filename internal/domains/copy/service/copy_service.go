package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/copy/model"
	"library-backend/internal/domains/copy/repository"
	editionRepo "library-backend/internal/domains/edition/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	pkgdb "library-backend/pkg/database"
	"library-backend/pkg/logger"
)

// maxNumberAttempts bounds retries when concurrent creates pick the same number
const maxNumberAttempts = 5

type copyService struct {
	repo        repository.RepositoryInterface
	editionRepo editionRepo.RepositoryInterface
}

func NewCopyService(repo repository.RepositoryInterface, editions editionRepo.RepositoryInterface) ServiceInterface {
	return &copyService{
		repo:        repo,
		editionRepo: editions,
	}
}

func (s *copyService) Create(ctx context.Context, req model.CreateCopyRequest) (*model.Copy, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	if _, err := s.editionRepo.GetByID(ctx, req.EditionID); err != nil {
		return nil, err
	}

	var created *model.Copy
	err := pkgdb.RetryOn(ctx, maxNumberAttempts, model.IsDuplicateNumberError, func(ctx context.Context) error {
		number, err := s.repo.NextNumber(ctx, req.EditionID)
		if err != nil {
			return err
		}

		now := utils.Now()
		c := &model.Copy{
			ID:        uuid.New(),
			EditionID: req.EditionID,
			Number:    number,
			Available: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}

		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *copyService) GetByID(ctx context.Context, id uuid.UUID) (*model.Copy, error) {
	if id == uuid.Nil {
		return nil, model.ErrCopyNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *copyService) List(ctx context.Context, filter model.CopyFilter) ([]model.Copy, int64, error) {
	if filter.Limit <= 0 || filter.Limit > utils.MaxLimit {
		filter.Limit = utils.DefaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *copyService) Update(ctx context.Context, id uuid.UUID, req model.UpdateCopyRequest) (*model.Copy, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := req.EditionID != nil && *req.EditionID != c.EditionID
	if moved {
		if _, err := s.editionRepo.GetByID(ctx, *req.EditionID); err != nil {
			return nil, err
		}
		c.EditionID = *req.EditionID
	}

	switch {
	case req.Number != nil:
		taken, err := s.repo.NumberTaken(ctx, c.EditionID, *req.Number, c.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, model.NewDuplicateCopyNumberError(c.EditionID, *req.Number)
		}
		c.Number = *req.Number
	case moved:
		if c.Number, err = s.repo.NextNumber(ctx, c.EditionID); err != nil {
			return nil, err
		}
	}

	now := utils.Now()
	if req.Available != nil {
		if err := s.repo.SetAvailability(ctx, c.ID, *req.Available, now); err != nil {
			return nil, err
		}
	}

	c.UpdatedAt = now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	// availability may have moved under a concurrent checkout or return
	return s.repo.GetByID(ctx, c.ID)
}

func (s *copyService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	counts, err := s.repo.LoanCounts(ctx, id)
	if err != nil {
		return err
	}
	if counts.Active > 0 {
		return model.NewCopyOnLoanError(id)
	}
	if counts.Returned > 0 && !force {
		return model.NewCopyHasLoanHistoryError(counts.Returned)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if counts.Returned > 0 {
		logger.Info("Copy force-deleted, loan history kept", map[string]interface{}{
			"copy_id": id.String(),
			"loans":   counts.Returned,
		})
	}
	return nil
}
