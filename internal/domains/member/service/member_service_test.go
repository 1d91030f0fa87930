package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/repository"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
)

func newTestService(t *testing.T) (ServiceInterface, *database.Store) {
	t.Helper()
	store := database.NewTestStore(t)
	return NewMemberService(repository.NewRepository(store.DB)), store
}

func strPtr(s string) *string { return &s }

func Test_Create_DuplicateNationalID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, model.CreateMemberRequest{NationalID: " 11111111-1 ", Name: "Ana  Pérez"})
	require.NoError(t, err)
	assert.Equal(t, "11111111-1", m.NationalID)
	assert.Equal(t, "Ana Pérez", m.Name)

	_, err = svc.Create(ctx, model.CreateMemberRequest{NationalID: "11111111-1", Name: "Someone Else"})
	assert.True(t, model.IsDuplicateNationalIDError(err))
	assert.True(t, apperror.IsConflict(err))
}

func Test_Create_RequiresFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), model.CreateMemberRequest{NationalID: "  ", Name: "X"})
	assert.True(t, apperror.IsInvalidInput(err))

	_, err = svc.Create(context.Background(), model.CreateMemberRequest{NationalID: "1", Name: ""})
	assert.True(t, apperror.IsInvalidInput(err))
}

func Test_Update_NationalIDExcludesSelf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, model.CreateMemberRequest{NationalID: "A-1", Name: "Alpha"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.CreateMemberRequest{NationalID: "B-2", Name: "Beta"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, model.UpdateMemberRequest{NationalID: strPtr("A-1"), Name: strPtr("Alpha Prime")})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Prime", updated.Name)

	_, err = svc.Update(ctx, a.ID, model.UpdateMemberRequest{NationalID: strPtr("B-2")})
	assert.True(t, model.IsDuplicateNationalIDError(err))

	_, err = svc.Update(ctx, uuid.New(), model.UpdateMemberRequest{Name: strPtr("Ghost")})
	assert.True(t, model.IsNotFoundError(err))
}

func Test_List_SearchesNameAndNationalID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, req := range []model.CreateMemberRequest{
		{NationalID: "12345678-9", Name: "Carla Soto"},
		{NationalID: "98765432-1", Name: "Diego Soto"},
		{NationalID: "55555555-5", Name: "Elena Ruiz"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	_, total, err := svc.List(ctx, model.MemberFilter{Search: "soto"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	members, total, err := svc.List(ctx, model.MemberFilter{Search: "5555"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Elena Ruiz", members[0].Name)
}

func Test_Delete_BlockedByActiveLoans(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, model.CreateMemberRequest{NationalID: "LOANER", Name: "Borrower"})
	require.NoError(t, err)

	now := utils.Now()
	loanID := uuid.New()
	_, err = store.DB.Exec(`INSERT INTO loans (id, member_id, copy_id, loan_date, due_date) VALUES (?, ?, ?, ?, ?)`,
		loanID, m.ID, uuid.New(), now, now.Add(48*time.Hour))
	require.NoError(t, err)

	err = svc.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, model.ErrMemberHasActiveLoans)
	assert.Contains(t, err.Error(), "1 active loan(s)")

	_, err = store.DB.Exec(`UPDATE loans SET return_date = ? WHERE id = ?`, now, loanID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))

	var history int
	require.NoError(t, store.DB.Get(&history, `SELECT COUNT(*) FROM loans WHERE member_id = ?`, m.ID))
	assert.Equal(t, 1, history)
}
