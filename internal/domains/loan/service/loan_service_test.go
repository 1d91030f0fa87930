package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	copyModel "library-backend/internal/domains/copy/model"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
	memberModel "library-backend/internal/domains/member/model"
	memberRepo "library-backend/internal/domains/member/repository"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
)

var testPolicy = model.FinePolicy{
	DefaultDays: 14,
	Daily:       decimal.RequireFromString("0.50"),
	Max:         decimal.RequireFromString("5.00"),
}

type fixture struct {
	svc   *loanService
	store *database.Store
}

func newTestService(t *testing.T) *fixture {
	t.Helper()
	store := database.NewTestStore(t)
	svc := NewLoanService(repository.NewRepository(store.DB), memberRepo.NewRepository(store.DB), testPolicy)
	return &fixture{svc: svc.(*loanService), store: store}
}

func (f *fixture) member(t *testing.T, nationalID string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := utils.Now()
	_, err := f.store.DB.Exec(f.store.DB.Rebind(`INSERT INTO members (id, national_id, name, created_at, updated_at) VALUES (?, ?, 'Reader', ?, ?)`),
		id, nationalID, now, now)
	require.NoError(t, err)
	return id
}

// copy inserts a book, an edition and one available copy
func (f *fixture) copy(t *testing.T) uuid.UUID {
	t.Helper()
	now := utils.Now()
	bookID, editionID, copyID := uuid.New(), uuid.New(), uuid.New()

	db := f.store.DB

	_, err := db.Exec(db.Rebind(`INSERT INTO books (id, title, created_at, updated_at) VALUES (?, 'Lendable', ?, ?)`), bookID, now, now)
	require.NoError(t, err)
	_, err = db.Exec(db.Rebind(`
		INSERT INTO editions (id, isbn, year, language, book_id, format, page_count, created_at, updated_at)
		VALUES (?, ?, 2020, 'en', ?, 'paperback', 120, ?, ?)`),
		editionID, uuid.NewString(), bookID, now, now)
	require.NoError(t, err)
	_, err = db.Exec(db.Rebind(`INSERT INTO copies (id, edition_id, number, available, created_at, updated_at) VALUES (?, ?, 1, ?, ?, ?)`),
		copyID, editionID, true, now, now)
	require.NoError(t, err)
	return copyID
}

func (f *fixture) available(t *testing.T, copyID uuid.UUID) bool {
	t.Helper()
	var available bool
	require.NoError(t, f.store.DB.Get(&available, `SELECT available FROM copies WHERE id = ?`, copyID))
	return available
}

// assertAvailabilityInvariant checks that every copy is unavailable exactly
// when an active loan references it
func (f *fixture) assertAvailabilityInvariant(t *testing.T) {
	t.Helper()

	var copies []struct {
		ID        uuid.UUID `db:"id"`
		Available bool      `db:"available"`
	}
	require.NoError(t, f.store.DB.Select(&copies, `SELECT id, available FROM copies`))

	var active []uuid.UUID
	require.NoError(t, f.store.DB.Select(&active, `SELECT copy_id FROM loans WHERE return_date IS NULL`))

	lent := map[uuid.UUID]int{}
	for _, id := range active {
		lent[id]++
	}
	for _, c := range copies {
		assert.LessOrEqual(t, lent[c.ID], 1, "copy %s has several active loans", c.ID)
		assert.Equal(t, lent[c.ID] == 0, c.Available, "copy %s availability disagrees with its loans", c.ID)
	}
}

func tomorrow() string {
	return utils.Now().AddDate(0, 0, 1).Format(model.DateLayout)
}

// ════════════════════════════════════════════════════════════════
// CHECKOUT
// ════════════════════════════════════════════════════════════════

func Test_Checkout_FlipsCopyAndCreatesLoan(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	memberID, copyID := f.member(t, "M-1"), f.copy(t)

	l, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: copyID, DueDate: tomorrow()})
	require.NoError(t, err)
	assert.Nil(t, l.ReturnDate)
	assert.Equal(t, model.StatusActive, l.Status)
	assert.False(t, f.available(t, copyID))
	f.assertAvailabilityInvariant(t)

	got, err := f.svc.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, copyID, got.CopyID)
	assert.Equal(t, memberID, got.MemberID)
}

func Test_Checkout_DueDateIsEndOfDayUTC(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	memberID := f.member(t, "M-DUE")

	due := tomorrow()
	l, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: f.copy(t), DueDate: due})
	require.NoError(t, err)
	assert.Equal(t, due, l.DueDate.Format(model.DateLayout))
	assert.Equal(t, "23:59:59", l.DueDate.Format("15:04:05"))
	assert.Equal(t, time.UTC, l.DueDate.Location())

	l, err = f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: f.copy(t)})
	require.NoError(t, err)
	want := utils.Now().AddDate(0, 0, testPolicy.DefaultDays).Format(model.DateLayout)
	assert.Equal(t, want, l.DueDate.Format(model.DateLayout))

	today := utils.Now().Format(model.DateLayout)
	_, err = f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: f.copy(t), DueDate: today})
	assert.NoError(t, err)
}

func Test_Checkout_Failures(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	memberID, copyID := f.member(t, "M-ERR"), f.copy(t)

	yesterday := utils.Now().AddDate(0, 0, -1).Format(model.DateLayout)
	_, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: copyID, DueDate: yesterday})
	assert.ErrorIs(t, err, model.ErrDueDateInPast)
	assert.True(t, apperror.IsInvalidInput(err))

	_, err = f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: copyID, DueDate: "next week"})
	assert.True(t, apperror.IsInvalidInput(err))

	_, err = f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: uuid.New(), DueDate: tomorrow()})
	assert.True(t, copyModel.IsNotFoundError(err))

	_, err = f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: uuid.New(), CopyID: copyID, DueDate: tomorrow()})
	assert.True(t, memberModel.IsNotFoundError(err))

	assert.True(t, f.available(t, copyID), "failed checkouts must not touch the copy")

	_, err = f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: copyID, DueDate: tomorrow()})
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: copyID, DueDate: tomorrow()})
	assert.True(t, copyModel.IsOnLoanError(err))
	assert.True(t, apperror.IsConflict(err))

	var loans int
	require.NoError(t, f.store.DB.Get(&loans, `SELECT COUNT(*) FROM loans WHERE copy_id = ?`, copyID))
	assert.Equal(t, 1, loans)
	f.assertAvailabilityInvariant(t)
}

// The in-memory store has a single connection, so these goroutines are
// serialized by database/sql. The postgres-tagged variant runs the same
// checkouts over a real pool.
func Test_Checkout_ConcurrentAttemptsOnlyOneWins(t *testing.T) {
	f := newTestService(t)
	runConcurrentCheckouts(t, f)
}

func runConcurrentCheckouts(t *testing.T, f *fixture) {
	t.Helper()
	copyID := f.copy(t)

	const attempts = 8
	members := make([]uuid.UUID, attempts)
	for i := range members {
		members[i] = f.member(t, uuid.NewString())
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(memberID uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := f.svc.Checkout(context.Background(), model.CheckoutRequest{MemberID: memberID, CopyID: copyID, DueDate: tomorrow()})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case copyModel.IsOnLoanError(err):
				conflicts++
			default:
				others = append(others, err)
			}
		}(members[i])
	}
	close(start)
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	var active int
	require.NoError(t, f.store.DB.Get(&active, f.store.DB.Rebind(`SELECT COUNT(*) FROM loans WHERE copy_id = ? AND return_date IS NULL`), copyID))
	assert.Equal(t, 1, active)
	f.assertAvailabilityInvariant(t)
}

// ════════════════════════════════════════════════════════════════
// RETURN
// ════════════════════════════════════════════════════════════════

func Test_Return_FreesCopy(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	copyID := f.copy(t)

	l, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: f.member(t, "M-RET"), CopyID: copyID, DueDate: tomorrow()})
	require.NoError(t, err)

	returned, err := f.svc.Return(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, model.StatusReturned, returned.Status)
	assert.True(t, returned.Fine.IsZero())
	assert.True(t, f.available(t, copyID))
	f.assertAvailabilityInvariant(t)

	again, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: f.member(t, "M-RET-2"), CopyID: copyID, DueDate: tomorrow()})
	require.NoError(t, err)
	assert.NotEqual(t, l.ID, again.ID)
}

func Test_Return_TwiceIsConflict(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	copyID := f.copy(t)

	l, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: f.member(t, "M-TWICE"), CopyID: copyID, DueDate: tomorrow()})
	require.NoError(t, err)

	first, err := f.svc.Return(ctx, l.ID)
	require.NoError(t, err)

	_, err = f.svc.Return(ctx, l.ID)
	assert.True(t, model.IsAlreadyReturnedError(err))
	assert.True(t, apperror.IsConflict(err))

	got, err := f.svc.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReturnDate)
	assert.True(t, first.ReturnDate.Equal(*got.ReturnDate))
	assert.True(t, f.available(t, copyID))
	f.assertAvailabilityInvariant(t)
}

func Test_Return_UnknownLoan(t *testing.T) {
	f := newTestService(t)

	_, err := f.svc.Return(context.Background(), uuid.New())
	assert.True(t, model.IsNotFoundError(err))
}

func Test_Return_LateLoanCarriesFine(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	copyID := f.copy(t)

	l, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: f.member(t, "M-LATE"), CopyID: copyID, DueDate: tomorrow()})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return l.DueDate.Add(3*24*time.Hour - time.Hour) }
	returned, err := f.svc.Return(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, returned.DaysOverdue)
	assert.Equal(t, "1.50", returned.Fine.StringFixed(2))
}

// ════════════════════════════════════════════════════════════════
// QUERIES
// ════════════════════════════════════════════════════════════════

func Test_List_ByStatus(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	memberID := f.member(t, "M-LIST")

	active, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: f.copy(t), DueDate: tomorrow()})
	require.NoError(t, err)
	done, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: f.copy(t), DueDate: tomorrow()})
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, done.ID)
	require.NoError(t, err)

	// an overdue loan can only be seeded directly; checkout rejects past due dates
	overdueCopy := f.copy(t)
	past := utils.Now().Add(-72 * time.Hour)
	_, err = f.store.DB.Exec(`INSERT INTO loans (id, member_id, copy_id, loan_date, due_date) VALUES (?, ?, ?, ?, ?)`,
		uuid.New(), memberID, overdueCopy, past.Add(-24*time.Hour), past)
	require.NoError(t, err)
	_, err = f.store.DB.Exec(`UPDATE copies SET available = ? WHERE id = ?`, false, overdueCopy)
	require.NoError(t, err)

	count := func(status string) int64 {
		_, total, err := f.svc.List(ctx, model.LoanFilter{Status: status, MemberID: memberID})
		require.NoError(t, err)
		return total
	}
	assert.Equal(t, int64(3), count(""))
	assert.Equal(t, int64(3), count("all"))
	assert.Equal(t, int64(2), count("active"))
	assert.Equal(t, int64(1), count("returned"))
	assert.Equal(t, int64(1), count("overdue"))

	loans, _, err := f.svc.List(ctx, model.LoanFilter{CopyID: active.CopyID})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, active.ID, loans[0].ID)

	_, _, err = f.svc.List(ctx, model.LoanFilter{Status: "lost"})
	assert.True(t, apperror.IsInvalidInput(err))
}

func Test_MemberLoans_SplitsActiveAndHistory(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	memberID := f.member(t, "M-HIST")

	first, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: f.copy(t), DueDate: tomorrow()})
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, first.ID)
	require.NoError(t, err)
	second, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: memberID, CopyID: f.copy(t), DueDate: tomorrow()})
	require.NoError(t, err)

	loans, err := f.svc.MemberLoans(ctx, memberID)
	require.NoError(t, err)
	require.Len(t, loans.Active, 1)
	require.Len(t, loans.History, 1)
	assert.Equal(t, second.ID, loans.Active[0].ID)
	assert.Equal(t, first.ID, loans.History[0].ID)

	_, err = f.svc.MemberLoans(ctx, uuid.New())
	assert.True(t, memberModel.IsNotFoundError(err))
}

// ════════════════════════════════════════════════════════════════
// MAINTENANCE
// ════════════════════════════════════════════════════════════════

func Test_Reconcile_RepairsBothDirections(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()

	// returned loan whose copy was never released
	stuck := f.copy(t)
	l, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: f.member(t, "M-STUCK"), CopyID: stuck, DueDate: tomorrow()})
	require.NoError(t, err)
	_, err = f.store.DB.Exec(`UPDATE loans SET return_date = ? WHERE id = ?`, utils.Now(), l.ID)
	require.NoError(t, err)

	// active loan whose copy is flagged available
	leaked := f.copy(t)
	now := utils.Now()
	_, err = f.store.DB.Exec(`INSERT INTO loans (id, member_id, copy_id, loan_date, due_date) VALUES (?, ?, ?, ?, ?)`,
		uuid.New(), uuid.New(), leaked, now, now.Add(48*time.Hour))
	require.NoError(t, err)

	healthy := f.copy(t)

	report, err := f.svc.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Len(t, report.Mismatches, 2)
	assert.Zero(t, report.Fixed)
	assert.False(t, f.available(t, stuck))

	result, err := f.svc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Fixed)
	assert.True(t, f.available(t, stuck))
	assert.False(t, f.available(t, leaked))
	assert.True(t, f.available(t, healthy))
	f.assertAvailabilityInvariant(t)

	clean, err := f.svc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, clean.Mismatches)
}

func Test_OverdueSummary_TotalsFines(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()
	now := utils.Now()

	for _, daysLate := range []int{2, 30} {
		due := now.Add(-time.Duration(daysLate)*24*time.Hour + time.Hour)
		_, err := f.store.DB.Exec(`INSERT INTO loans (id, member_id, copy_id, loan_date, due_date) VALUES (?, ?, ?, ?, ?)`,
			uuid.New(), uuid.New(), uuid.New(), due.Add(-14*24*time.Hour), due)
		require.NoError(t, err)
	}
	_, err := f.svc.Checkout(ctx, model.CheckoutRequest{MemberID: f.member(t, "M-OK"), CopyID: f.copy(t), DueDate: tomorrow()})
	require.NoError(t, err)

	summary, err := f.svc.OverdueSummary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	// 2 days at 0.50 plus the 5.00 cap
	assert.Equal(t, "6.00", summary.TotalFine.StringFixed(2))
	assert.Equal(t, 30, summary.Loans[0].DaysOverdue)
}
