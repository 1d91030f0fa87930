package service

import (
	"context"

	"github.com/google/uuid"

	bookRepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/edition/model"
	"library-backend/internal/domains/edition/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/logger"
)

type editionService struct {
	repo     repository.RepositoryInterface
	bookRepo bookRepo.RepositoryInterface
}

func NewEditionService(repo repository.RepositoryInterface, books bookRepo.RepositoryInterface) ServiceInterface {
	return &editionService{
		repo:     repo,
		bookRepo: books,
	}
}

func (s *editionService) Create(ctx context.Context, req model.CreateEditionRequest) (*model.Edition, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	if err := s.ensureISBNFree(ctx, req.ISBN, uuid.Nil); err != nil {
		return nil, err
	}

	now := utils.Now()
	e := &model.Edition{
		ID:        uuid.New(),
		ISBN:      req.ISBN,
		Year:      req.Year,
		Language:  req.Language,
		BookID:    req.BookID,
		Publisher: req.Publisher,
		Format:    req.Format,
		PageCount: req.PageCount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *editionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Edition, error) {
	if id == uuid.Nil {
		return nil, model.ErrEditionNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *editionService) List(ctx context.Context, filter model.EditionFilter) ([]model.Edition, int64, error) {
	if filter.Limit <= 0 || filter.Limit > utils.MaxLimit {
		filter.Limit = utils.DefaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *editionService) Update(ctx context.Context, id uuid.UUID, req model.UpdateEditionRequest) (*model.Edition, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ISBN != nil && *req.ISBN != e.ISBN {
		if err := s.ensureISBNFree(ctx, *req.ISBN, e.ID); err != nil {
			return nil, err
		}
		e.ISBN = *req.ISBN
	}
	if req.BookID != nil && *req.BookID != e.BookID {
		if _, err := s.bookRepo.GetByID(ctx, *req.BookID); err != nil {
			return nil, err
		}
		e.BookID = *req.BookID
	}
	if req.Year != nil {
		e.Year = *req.Year
	}
	if req.Language != nil {
		e.Language = *req.Language
	}
	if req.Publisher != nil {
		e.Publisher = req.Publisher
	}
	if req.Format != nil {
		e.Format = *req.Format
	}
	if req.PageCount != nil {
		e.PageCount = *req.PageCount
	}
	e.UpdatedAt = utils.Now()

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *editionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountCopies(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return model.NewEditionHasCopiesError(count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Edition deleted", map[string]interface{}{"edition_id": id.String()})
	return nil
}

// ensureISBNFree is the early check; the unique constraint still decides races
func (s *editionService) ensureISBNFree(ctx context.Context, isbn string, excludeID uuid.UUID) error {
	taken, err := s.repo.ISBNTaken(ctx, isbn, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return model.NewDuplicateISBNError(isbn)
	}
	return nil
}
