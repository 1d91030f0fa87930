package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/loan/service"
	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/shared"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// AdminHandler exposes maintenance operations to admin staff
type AdminHandler struct {
	service  service.ServiceInterface
	enqueuer queue.Enqueuer
}

// NewAdminHandler accepts a nil enqueuer when no background queue is configured
func NewAdminHandler(svc service.ServiceInterface, enqueuer queue.Enqueuer) *AdminHandler {
	return &AdminHandler{service: svc, enqueuer: enqueuer}
}

// ════════════════════════════════════════════════════════════════
// RECONCILE: POST /v1/admin/reconcile?dry_run=true&async=true
// ════════════════════════════════════════════════════════════════

func (h *AdminHandler) Reconcile(c *gin.Context) {
	dryRun, err := utils.ParseFlag(c.Query("dry_run"))
	if err != nil {
		response.BadRequest(c, "Invalid dry_run: must be true or false")
		return
	}
	async, err := utils.ParseFlag(c.Query("async"))
	if err != nil {
		response.BadRequest(c, "Invalid async: must be true or false")
		return
	}

	if async {
		if h.enqueuer == nil {
			response.ErrorResponse(c, http.StatusServiceUnavailable, "Background queue is not configured", nil)
			return
		}

		info, err := queue.EnqueueReconcile(h.enqueuer, shared.ReconcileAvailabilityPayload{
			DryRun:      dryRun,
			RequestedBy: c.GetString(middleware.ContextUsername),
		})
		if err != nil {
			response.FromError(c, err)
			return
		}

		response.Success(c, http.StatusAccepted, "Reconcile enqueued", gin.H{
			"task_id": info.ID,
			"queue":   info.Queue,
		})
		return
	}

	result, err := h.service.Reconcile(c.Request.Context(), dryRun)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reconcile finished", result)
}
