package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/logger"
)

type memberService struct {
	repo repository.RepositoryInterface
}

func NewMemberService(repo repository.RepositoryInterface) ServiceInterface {
	return &memberService{repo: repo}
}

func (s *memberService) Create(ctx context.Context, req model.CreateMemberRequest) (*model.Member, error) {
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.Name = utils.CollapseSpaces(req.Name)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	if err := s.ensureNationalIDFree(ctx, req.NationalID, uuid.Nil); err != nil {
		return nil, err
	}

	now := utils.Now()
	m := &model.Member{
		ID:         uuid.New(),
		NationalID: req.NationalID,
		Name:       req.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *memberService) GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	if id == uuid.Nil {
		return nil, model.ErrMemberNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *memberService) List(ctx context.Context, filter model.MemberFilter) ([]model.Member, int64, error) {
	if filter.Limit <= 0 || filter.Limit > utils.MaxLimit {
		filter.Limit = utils.DefaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *memberService) Update(ctx context.Context, id uuid.UUID, req model.UpdateMemberRequest) (*model.Member, error) {
	if req.NationalID != nil {
		nid := strings.TrimSpace(*req.NationalID)
		req.NationalID = &nid
	}
	if req.Name != nil {
		name := utils.CollapseSpaces(*req.Name)
		req.Name = &name
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NationalID != nil && *req.NationalID != m.NationalID {
		if err := s.ensureNationalIDFree(ctx, *req.NationalID, m.ID); err != nil {
			return nil, err
		}
		m.NationalID = *req.NationalID
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	m.UpdatedAt = utils.Now()

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *memberService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.repo.CountActiveLoans(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return model.NewMemberHasActiveLoansError(active)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Member deleted", map[string]interface{}{"member_id": id.String()})
	return nil
}

func (s *memberService) ensureNationalIDFree(ctx context.Context, nationalID string, excludeID uuid.UUID) error {
	taken, err := s.repo.NationalIDTaken(ctx, nationalID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return model.NewDuplicateNationalIDError(nationalID)
	}
	return nil
}
