package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/shared/utils"
)

// DateLayout is the calendar-date format accepted for due dates
const DateLayout = "2006-01-02"

// CheckoutRequest lends a copy. DueDate is a calendar date; empty means
// today plus the configured loan period
type CheckoutRequest struct {
	MemberID uuid.UUID `json:"member_id" binding:"required"`
	CopyID   uuid.UUID `json:"copy_id" binding:"required"`
	DueDate  string    `json:"due_date"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MemberID, validation.By(utils.NotNilUUID("member id"))),
		validation.Field(&r.CopyID, validation.By(utils.NotNilUUID("copy id"))),
		validation.Field(&r.DueDate, validation.Date(DateLayout).Error("must be a date formatted YYYY-MM-DD")),
	)
}

// LoanFilter narrows List. Empty Status or "all" lists everything
type LoanFilter struct {
	Status   string
	MemberID uuid.UUID
	CopyID   uuid.UUID
	Limit    int
	Offset   int
}

const StatusAll = "all"

func (f LoanFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, validation.In(
			StatusAll, string(StatusActive), string(StatusOverdue), string(StatusReturned),
		).Error("must be one of all, active, overdue, returned")),
	)
}
