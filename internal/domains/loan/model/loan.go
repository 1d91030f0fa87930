package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

// Loan is a checkout of one copy by one member. ReturnDate nil means active.
// Status, DaysOverdue and Fine are derived at read time.
type Loan struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	MemberID   uuid.UUID  `json:"member_id" db:"member_id"`
	CopyID     uuid.UUID  `json:"copy_id" db:"copy_id"`
	LoanDate   time.Time  `json:"loan_date" db:"loan_date"`
	DueDate    time.Time  `json:"due_date" db:"due_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"`

	Status      Status          `json:"status" db:"-"`
	DaysOverdue int             `json:"days_overdue" db:"-"`
	Fine        decimal.Decimal `json:"fine" db:"-"`
}

func (l *Loan) IsActive() bool {
	return l.ReturnDate == nil
}

// DaysLate counts whole days past the due date, measured at return for
// returned loans and at now for active ones
func (l *Loan) DaysLate(now time.Time) int {
	end := now
	if l.ReturnDate != nil {
		end = *l.ReturnDate
	}
	late := end.Sub(l.DueDate)
	if late <= 0 {
		return 0
	}
	return int((late + day - 1) / day)
}

// FinePolicy prices late days. A zero Max means uncapped
type FinePolicy struct {
	DefaultDays int
	Daily       decimal.Decimal
	Max         decimal.Decimal
}

func (p FinePolicy) FineFor(daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	fine := p.Daily.Mul(decimal.NewFromInt(int64(daysLate)))
	if p.Max.IsPositive() && fine.GreaterThan(p.Max) {
		return p.Max
	}
	return fine
}

// Annotate fills the derived fields as of now
func (p FinePolicy) Annotate(l *Loan, now time.Time) {
	l.DaysOverdue = l.DaysLate(now)
	l.Fine = p.FineFor(l.DaysOverdue)

	switch {
	case l.ReturnDate != nil:
		l.Status = StatusReturned
	case now.After(l.DueDate):
		l.Status = StatusOverdue
	default:
		l.Status = StatusActive
	}
}

// MemberLoans splits a member's loans into current and past, newest first
type MemberLoans struct {
	MemberID uuid.UUID `json:"member_id"`
	Active   []Loan    `json:"active"`
	History  []Loan    `json:"history"`
}

// Mismatch is a copy whose available flag disagrees with its loans
type Mismatch struct {
	CopyID      uuid.UUID `json:"copy_id" db:"copy_id"`
	Available   bool      `json:"available" db:"available"`
	ActiveLoans int       `json:"active_loans" db:"active_loans"`
}

// Expected is the availability the loans imply
func (m Mismatch) Expected() bool {
	return m.ActiveLoans == 0
}

type ReconcileResult struct {
	DryRun     bool       `json:"dry_run"`
	Mismatches []Mismatch `json:"mismatches"`
	Fixed      int        `json:"fixed"`
}

type OverdueSummary struct {
	Count     int             `json:"count"`
	TotalFine decimal.Decimal `json:"total_fine"`
	Loans     []Loan          `json:"loans"`
	AsOf      time.Time       `json:"as_of"`
}
