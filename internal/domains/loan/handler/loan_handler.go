package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type LoanHandler struct {
	service service.ServiceInterface
}

func NewLoanHandler(svc service.ServiceInterface) *LoanHandler {
	return &LoanHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CHECKOUT: POST /v1/loans
// ════════════════════════════════════════════════════════════════

func (h *LoanHandler) Checkout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	l, err := h.service.Checkout(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Copy checked out", l)
}

// ════════════════════════════════════════════════════════════════
// RETURN: POST /v1/loans/:id/return
// ════════════════════════════════════════════════════════════════

func (h *LoanHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	l, err := h.service.Return(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Loan returned", l)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/loans/:id
// ════════════════════════════════════════════════════════════════

func (h *LoanHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Loan retrieved", l)
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/loans?status=active&member_id=&copy_id=&limit=20&offset=0
// ════════════════════════════════════════════════════════════════

func (h *LoanHandler) List(c *gin.Context) {
	limit, offset := utils.ParsePagination(c.Query("limit"), c.Query("offset"))

	filter := model.LoanFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}

	var ok bool
	if filter.MemberID, ok = optionalUUID(c, "member_id"); !ok {
		return
	}
	if filter.CopyID, ok = optionalUUID(c, "copy_id"); !ok {
		return
	}

	loans, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Loans retrieved", loans, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// ════════════════════════════════════════════════════════════════
// MEMBER LOANS: GET /v1/members/:id/loans
// ════════════════════════════════════════════════════════════════

func (h *LoanHandler) MemberLoans(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	loans, err := h.service.MemberLoans(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Member loans retrieved", loans)
}

// optionalUUID parses query key when present; it writes a 400 and reports
// false when the value is malformed
func optionalUUID(c *gin.Context, key string) (uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}
