package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	authorRepo "library-backend/internal/domains/author/repository"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/logger"
)

type bookService struct {
	repo       repository.RepositoryInterface
	authorRepo authorRepo.RepositoryInterface
}

func NewBookService(repo repository.RepositoryInterface, authors authorRepo.RepositoryInterface) ServiceInterface {
	return &bookService{
		repo:       repo,
		authorRepo: authors,
	}
}

func (s *bookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	req.Title = utils.CollapseSpaces(req.Title)
	req.Genre = trimOptional(req.Genre)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	refs, err := s.snapshotAuthors(ctx, req.AuthorIDs)
	if err != nil {
		return nil, err
	}

	now := utils.Now()
	b := &model.Book{
		ID:              uuid.New(),
		Title:           req.Title,
		Authors:         refs,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error) {
	if filter.Limit <= 0 || filter.Limit > utils.MaxLimit {
		filter.Limit = utils.DefaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if req.Title != nil {
		title := utils.CollapseSpaces(*req.Title)
		req.Title = &title
	}
	req.Genre = trimOptional(req.Genre)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.PublicationYear != nil {
		b.PublicationYear = req.PublicationYear
	}
	if req.Genre != nil {
		b.Genre = req.Genre
	}

	replaceAuthors := req.AuthorIDs != nil
	if replaceAuthors {
		if b.Authors, err = s.snapshotAuthors(ctx, req.AuthorIDs); err != nil {
			return nil, err
		}
	}
	b.UpdatedAt = utils.Now()

	if err := s.repo.Update(ctx, b, replaceAuthors); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountEditions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return model.NewBookHasEditionsError(count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Book deleted", map[string]interface{}{"book_id": id.String()})
	return nil
}

// snapshotAuthors resolves ids to {id, name} in request order
func (s *bookService) snapshotAuthors(ctx context.Context, ids []uuid.UUID) ([]model.AuthorRef, error) {
	refs := make([]model.AuthorRef, 0, len(ids))
	for _, id := range ids {
		a, err := s.authorRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, model.AuthorRef{AuthorID: a.ID, Name: a.Name})
	}
	return refs, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
