package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "library-backend/internal/domains/author/model"
	authorRepo "library-backend/internal/domains/author/repository"
	authorService "library-backend/internal/domains/author/service"
	bookModel "library-backend/internal/domains/book/model"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	copyModel "library-backend/internal/domains/copy/model"
	copyRepo "library-backend/internal/domains/copy/repository"
	copyService "library-backend/internal/domains/copy/service"
	editionModel "library-backend/internal/domains/edition/model"
	editionRepo "library-backend/internal/domains/edition/repository"
	editionService "library-backend/internal/domains/edition/service"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
	memberModel "library-backend/internal/domains/member/model"
	memberRepo "library-backend/internal/domains/member/repository"
	memberService "library-backend/internal/domains/member/service"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
)

func Test_Scenario_CheckoutAndReturn(t *testing.T) {
	store := database.NewTestStore(t)
	c := cache.NewNoopCache()
	ctx := context.Background()

	authors := authorRepo.NewRepository(store.DB, c)
	books := bookRepo.NewRepository(store.DB, c)
	editions := editionRepo.NewRepository(store.DB, c)
	copies := copyRepo.NewRepository(store.DB)
	members := memberRepo.NewRepository(store.DB)

	authorSvc := authorService.NewAuthorService(authors)
	bookSvc := bookService.NewBookService(books, authors)
	editionSvc := editionService.NewEditionService(editions, books)
	copySvc := copyService.NewCopyService(copies, editions)
	memberSvc := memberService.NewMemberService(members)
	loanSvc := NewLoanService(repository.NewRepository(store.DB), members, testPolicy)

	m1, err := memberSvc.Create(ctx, memberModel.CreateMemberRequest{NationalID: "11111111-1", Name: "First Member"})
	require.NoError(t, err)

	a, err := authorSvc.Create(ctx, authorModel.CreateAuthorRequest{Name: "Gabriel García Márquez"})
	require.NoError(t, err)

	b1, err := bookSvc.Create(ctx, bookModel.CreateBookRequest{Title: "Cien años de soledad", AuthorIDs: []uuid.UUID{a.ID}})
	require.NoError(t, err)

	e1, err := editionSvc.Create(ctx, editionModel.CreateEditionRequest{
		ISBN:      "X",
		Year:      1967,
		Language:  "es",
		BookID:    b1.ID,
		Format:    editionModel.FormatPaperback,
		PageCount: 100,
	})
	require.NoError(t, err)

	c1, err := copySvc.Create(ctx, copyModel.CreateCopyRequest{EditionID: e1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, c1.Number)
	assert.True(t, c1.Available)

	loan, err := loanSvc.Checkout(ctx, model.CheckoutRequest{MemberID: m1.ID, CopyID: c1.ID, DueDate: tomorrow()})
	require.NoError(t, err)
	assert.Nil(t, loan.ReturnDate)

	c1, err = copySvc.GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.False(t, c1.Available)

	// guards while the loan is active
	assert.ErrorIs(t, memberSvc.Delete(ctx, m1.ID), memberModel.ErrMemberHasActiveLoans)
	assert.ErrorIs(t, copySvc.Delete(ctx, c1.ID, true), copyModel.ErrCopyOnLoan)
	assert.ErrorIs(t, editionSvc.Delete(ctx, e1.ID), editionModel.ErrEditionHasCopies)
	assert.ErrorIs(t, bookSvc.Delete(ctx, b1.ID), bookModel.ErrBookHasEditions)
	assert.ErrorIs(t, authorSvc.Delete(ctx, a.ID), authorModel.ErrAuthorHasBooks)

	returned, err := loanSvc.Return(ctx, loan.ID)
	require.NoError(t, err)
	assert.NotNil(t, returned.ReturnDate)

	c1, err = copySvc.GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.True(t, c1.Available)

	// teardown in dependency order; the loan history survives
	assert.ErrorIs(t, copySvc.Delete(ctx, c1.ID, false), copyModel.ErrCopyHasLoanHistory)
	require.NoError(t, copySvc.Delete(ctx, c1.ID, true))
	require.NoError(t, editionSvc.Delete(ctx, e1.ID))
	require.NoError(t, bookSvc.Delete(ctx, b1.ID))
	require.NoError(t, authorSvc.Delete(ctx, a.ID))
	require.NoError(t, memberSvc.Delete(ctx, m1.ID))

	history, _, err := loanSvc.List(ctx, model.LoanFilter{Status: "returned"})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, loan.ID, history[0].ID)
}
