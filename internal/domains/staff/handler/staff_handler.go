package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/staff/model"
	"library-backend/internal/domains/staff/service"
	"library-backend/internal/shared/response"
)

type StaffHandler struct {
	service service.ServiceInterface
}

func NewStaffHandler(svc service.ServiceInterface) *StaffHandler {
	return &StaffHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// LOGIN: POST /v1/auth/login
// ════════════════════════════════════════════════════════════════

func (h *StaffHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", res)
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/admin/staff (admin only)
// ════════════════════════════════════════════════════════════════

func (h *StaffHandler) Create(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	staff, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Staff account created", staff)
}
