package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/copy/model"
	"library-backend/internal/domains/copy/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type CopyHandler struct {
	service service.ServiceInterface
}

func NewCopyHandler(svc service.ServiceInterface) *CopyHandler {
	return &CopyHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/copies
// ════════════════════════════════════════════════════════════════

func (h *CopyHandler) Create(c *gin.Context) {
	var req model.CreateCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	cp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Copy created", cp)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/copies/:id
// ════════════════════════════════════════════════════════════════

func (h *CopyHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	cp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Copy retrieved", cp)
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/copies?edition_id=&available=true&limit=20&offset=0
// ════════════════════════════════════════════════════════════════

func (h *CopyHandler) List(c *gin.Context) {
	limit, offset := utils.ParsePagination(c.Query("limit"), c.Query("offset"))

	filter := model.CopyFilter{Limit: limit, Offset: offset}
	if raw := c.Query("edition_id"); raw != "" {
		editionID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid edition_id")
			return
		}
		filter.EditionID = editionID
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "Invalid available flag")
			return
		}
		filter.Available = &available
	}

	copies, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Copies retrieved", copies, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /v1/copies/:id
// ════════════════════════════════════════════════════════════════

func (h *CopyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.UpdateCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	cp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Copy updated", cp)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/copies/:id?force=true
// ════════════════════════════════════════════════════════════════

func (h *CopyHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	force, err := utils.ParseFlag(c.Query("force"))
	if err != nil {
		response.BadRequest(c, "Invalid force: must be true or false")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, force); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Copy deleted", nil)
}
