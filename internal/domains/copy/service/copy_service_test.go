package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/copy/model"
	"library-backend/internal/domains/copy/repository"
	editionModel "library-backend/internal/domains/edition/model"
	editionRepo "library-backend/internal/domains/edition/repository"
	loanModel "library-backend/internal/domains/loan/model"
	loanRepo "library-backend/internal/domains/loan/repository"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
)

func newTestService(t *testing.T) (ServiceInterface, *database.Store) {
	t.Helper()
	store := database.NewTestStore(t)
	return NewCopyService(repository.NewRepository(store.DB), editionRepo.NewRepository(store.DB, cache.NewNoopCache())), store
}

// seedEdition inserts a book and one edition of it
func seedEdition(t *testing.T, store *database.Store, isbn string) uuid.UUID {
	t.Helper()
	now := utils.Now()
	bookID, editionID := uuid.New(), uuid.New()

	_, err := store.DB.Exec(`INSERT INTO books (id, title, created_at, updated_at) VALUES (?, 'Seeded', ?, ?)`, bookID, now, now)
	require.NoError(t, err)
	_, err = store.DB.Exec(`
		INSERT INTO editions (id, isbn, year, language, book_id, format, page_count, created_at, updated_at)
		VALUES (?, ?, 2010, 'en', ?, 'hardcover', 200, ?, ?)`,
		editionID, isbn, bookID, now, now)
	require.NoError(t, err)
	return editionID
}

// seedLoan inserts a loan row; a zero returned time leaves it active
func seedLoan(t *testing.T, store *database.Store, copyID uuid.UUID, returned time.Time) {
	t.Helper()
	now := utils.Now()
	var returnDate interface{}
	if !returned.IsZero() {
		returnDate = returned
	}
	_, err := store.DB.Exec(`
		INSERT INTO loans (id, member_id, copy_id, loan_date, due_date, return_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New(), uuid.New(), copyID, now, now.Add(24*time.Hour), returnDate)
	require.NoError(t, err)
	if returned.IsZero() {
		_, err = store.DB.Exec(`UPDATE copies SET available = ? WHERE id = ?`, false, copyID)
		require.NoError(t, err)
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func Test_Create_NumbersSequentially(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	editionID := seedEdition(t, store, "SEQ")

	for want := 1; want <= 3; want++ {
		c, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
		require.NoError(t, err)
		assert.Equal(t, want, c.Number)
		assert.True(t, c.Available)
	}

	other := seedEdition(t, store, "OTHER")
	c, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: other})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Number)
}

func Test_Create_ConcurrentCallsGetDistinctNumbers(t *testing.T) {
	svc, store := newTestService(t)
	editionID := seedEdition(t, store, "CONC")

	const workers = 4
	var wg sync.WaitGroup
	numbers := make(chan int, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.Create(context.Background(), model.CreateCopyRequest{EditionID: editionID})
			if err != nil {
				errs <- err
				return
			}
			numbers <- c.Number
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[int]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "number %d assigned twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func Test_Create_UnknownEdition(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), model.CreateCopyRequest{EditionID: uuid.New()})
	assert.True(t, editionModel.IsNotFoundError(err))
}

func Test_Update_NumberUniqueWithinEdition(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	editionID := seedEdition(t, store, "NUM")

	first, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.ID, model.UpdateCopyRequest{Number: intPtr(2)})
	assert.True(t, model.IsDuplicateNumberError(err))

	updated, err := svc.Update(ctx, first.ID, model.UpdateCopyRequest{Number: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Number)

	_, err = svc.Update(ctx, first.ID, model.UpdateCopyRequest{Number: intPtr(0)})
	assert.True(t, apperror.IsInvalidInput(err))
}

func Test_Update_MoveTakesNextNumber(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	from := seedEdition(t, store, "FROM")
	to := seedEdition(t, store, "TO")

	c, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: from})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = svc.Create(ctx, model.CreateCopyRequest{EditionID: to})
		require.NoError(t, err)
	}

	moved, err := svc.Update(ctx, c.ID, model.UpdateCopyRequest{EditionID: &to})
	require.NoError(t, err)
	assert.Equal(t, to, moved.EditionID)
	assert.Equal(t, 3, moved.Number)
}

func Test_Update_AvailabilityFollowsLoans(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	editionID := seedEdition(t, store, "AVAIL")

	c, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, model.UpdateCopyRequest{Available: boolPtr(false)})
	assert.ErrorIs(t, err, model.ErrCopyNotOnLoan)

	seedLoan(t, store, c.ID, time.Time{})

	_, err = svc.Update(ctx, c.ID, model.UpdateCopyRequest{Available: boolPtr(true)})
	assert.True(t, model.IsOnLoanError(err))

	got, err := svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
}

// checkoutOnNumberCheck lends the copy out while Update sits between its read and its write
type checkoutOnNumberCheck struct {
	repository.RepositoryInterface
	loans loanRepo.RepositoryInterface
	done  bool
}

func (r *checkoutOnNumberCheck) NumberTaken(ctx context.Context, editionID uuid.UUID, number int, excludeID uuid.UUID) (bool, error) {
	if !r.done {
		r.done = true
		now := utils.Now()
		err := r.loans.Checkout(ctx, &loanModel.Loan{
			ID:       uuid.New(),
			MemberID: uuid.New(),
			CopyID:   excludeID,
			LoanDate: now,
			DueDate:  now.Add(24 * time.Hour),
		})
		if err != nil {
			return false, err
		}
	}
	return r.RepositoryInterface.NumberTaken(ctx, editionID, number, excludeID)
}

func Test_Update_RenumberKeepsConcurrentCheckout(t *testing.T) {
	store := database.NewTestStore(t)
	ctx := context.Background()
	editions := editionRepo.NewRepository(store.DB, cache.NewNoopCache())
	editionID := seedEdition(t, store, "RACE")

	repo := &checkoutOnNumberCheck{
		RepositoryInterface: repository.NewRepository(store.DB),
		loans:               loanRepo.NewRepository(store.DB),
	}
	svc := NewCopyService(repo, editions)

	c, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, model.UpdateCopyRequest{Number: intPtr(7)})
	require.NoError(t, err)
	require.True(t, repo.done)
	assert.Equal(t, 7, updated.Number)
	assert.False(t, updated.Available, "renumbering must not release a copy that is on loan")

	var available bool
	require.NoError(t, store.DB.Get(&available, `SELECT available FROM copies WHERE id = ?`, c.ID))
	assert.False(t, available)
}

func Test_Update_AvailabilityOnMissingCopy(t *testing.T) {
	store := database.NewTestStore(t)
	repo := repository.NewRepository(store.DB)

	err := repo.SetAvailability(context.Background(), uuid.New(), true, utils.Now())
	assert.True(t, apperror.IsNotFound(err))
}

func Test_Delete_Guards(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	editionID := seedEdition(t, store, "DEL")

	active, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
	require.NoError(t, err)
	seedLoan(t, store, active.ID, time.Time{})

	err = svc.Delete(ctx, active.ID, true)
	assert.True(t, model.IsOnLoanError(err))

	historic, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
	require.NoError(t, err)
	seedLoan(t, store, historic.ID, utils.Now())
	seedLoan(t, store, historic.ID, utils.Now())

	err = svc.Delete(ctx, historic.ID, false)
	assert.ErrorIs(t, err, model.ErrCopyHasLoanHistory)
	assert.Contains(t, err.Error(), "2 loan(s)")

	require.NoError(t, svc.Delete(ctx, historic.ID, true))
	_, err = svc.GetByID(ctx, historic.ID)
	assert.True(t, model.IsNotFoundError(err))

	var kept int
	require.NoError(t, store.DB.Get(&kept, `SELECT COUNT(*) FROM loans WHERE copy_id = ?`, historic.ID))
	assert.Equal(t, 2, kept)

	plain, err := svc.Create(ctx, model.CreateCopyRequest{EditionID: editionID})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, plain.ID, false))

	err = svc.Delete(ctx, uuid.New(), false)
	assert.True(t, apperror.IsNotFound(err))
}
