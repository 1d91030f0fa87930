package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/edition/model"
	"library-backend/internal/domains/edition/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type EditionHandler struct {
	service service.ServiceInterface
}

func NewEditionHandler(svc service.ServiceInterface) *EditionHandler {
	return &EditionHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/editions
// ════════════════════════════════════════════════════════════════

func (h *EditionHandler) Create(c *gin.Context) {
	var req model.CreateEditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	e, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Edition created", e)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/editions/:id
// ════════════════════════════════════════════════════════════════

func (h *EditionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Edition retrieved", e)
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/editions?book_id=&isbn=&limit=20&offset=0
// ════════════════════════════════════════════════════════════════

func (h *EditionHandler) List(c *gin.Context) {
	limit, offset := utils.ParsePagination(c.Query("limit"), c.Query("offset"))

	filter := model.EditionFilter{
		ISBN:   c.Query("isbn"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("book_id"); raw != "" {
		bookID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid book_id")
			return
		}
		filter.BookID = bookID
	}

	editions, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Editions retrieved", editions, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /v1/editions/:id
// ════════════════════════════════════════════════════════════════

func (h *EditionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.UpdateEditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	e, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Edition updated", e)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/editions/:id
// ════════════════════════════════════════════════════════════════

func (h *EditionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Edition deleted", nil)
}
