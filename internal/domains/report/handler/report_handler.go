package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/report/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type ReportHandler struct {
	service service.ServiceInterface
}

func NewReportHandler(svc service.ServiceInterface) *ReportHandler {
	return &ReportHandler{service: svc}
}

// GET /v1/reports/copies
func (h *ReportHandler) CopiesCatalog(c *gin.Context) {
	entries, err := h.service.CopiesCatalog(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Copies retrieved", entries, &response.Meta{Total: int64(len(entries))})
}

// GET /v1/reports/books?title=
func (h *ReportHandler) SearchBooks(c *gin.Context) {
	books, err := h.service.SearchBooks(c.Request.Context(), c.Query("title"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved", books, &response.Meta{Total: int64(len(books))})
}

// GET /v1/reports/authors?name=
func (h *ReportHandler) SearchAuthors(c *gin.Context) {
	matches, err := h.service.SearchAuthors(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved", matches, &response.Meta{Total: int64(len(matches))})
}

// GET /v1/reports/editions?isbn=
func (h *ReportHandler) SearchISBN(c *gin.Context) {
	matches, err := h.service.SearchISBN(c.Request.Context(), c.Query("isbn"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Editions retrieved", matches, &response.Meta{Total: int64(len(matches))})
}

// GET /v1/reports/members/:national_id
func (h *ReportHandler) MemberReport(c *gin.Context) {
	report, err := h.service.MemberReport(c.Request.Context(), c.Param("national_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Member report retrieved", report)
}

// GET /v1/reports/statistics?fresh=true
func (h *ReportHandler) Statistics(c *gin.Context) {
	fresh, err := utils.ParseFlag(c.Query("fresh"))
	if err != nil {
		response.BadRequest(c, "Invalid fresh: must be true or false")
		return
	}
	if fresh {
		if err := h.service.InvalidateCache(c.Request.Context()); err != nil {
			response.FromError(c, err)
			return
		}
	}

	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Statistics retrieved", stats)
}

// ════════════════════════════════════════════════════════════════
// EXPORT: GET /v1/reports/statistics/export (xlsx download)
// ════════════════════════════════════════════════════════════════

func (h *ReportHandler) ExportStatistics(c *gin.Context) {
	export, err := h.service.ExportStatistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// GET /v1/reports/consistency
func (h *ReportHandler) Consistency(c *gin.Context) {
	result, err := h.service.Consistency(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Consistency check finished", result)
}
