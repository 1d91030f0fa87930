package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type MemberHandler struct {
	service service.ServiceInterface
}

func NewMemberHandler(svc service.ServiceInterface) *MemberHandler {
	return &MemberHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/members
// ════════════════════════════════════════════════════════════════

func (h *MemberHandler) Create(c *gin.Context) {
	var req model.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Member created", m)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/members/:id
// ════════════════════════════════════════════════════════════════

func (h *MemberHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Member retrieved", m)
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/members?search=&limit=20&offset=0
// ════════════════════════════════════════════════════════════════

func (h *MemberHandler) List(c *gin.Context) {
	limit, offset := utils.ParsePagination(c.Query("limit"), c.Query("offset"))

	members, total, err := h.service.List(c.Request.Context(), model.MemberFilter{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Members retrieved", members, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /v1/members/:id
// ════════════════════════════════════════════════════════════════

func (h *MemberHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Member updated", m)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/members/:id
// ════════════════════════════════════════════════════════════════

func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Member deleted", nil)
}
