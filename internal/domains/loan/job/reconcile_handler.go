package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared"
	"library-backend/pkg/logger"
)

// ReconcileHandler runs the copy availability repair pass
type ReconcileHandler struct {
	service service.ServiceInterface
}

func NewReconcileHandler(svc service.ServiceInterface) *ReconcileHandler {
	return &ReconcileHandler{service: svc}
}

// ProcessTask handles shared.TypeReconcileAvailability.
// A malformed payload is not retried; storage errors are.
func (h *ReconcileHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReconcileAvailabilityPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("ReconcileAvailability: Failed to unmarshal payload", err)
			return fmt.Errorf("unmarshal reconcile payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	result, err := h.service.Reconcile(ctx, payload.DryRun)
	if err != nil {
		logger.Error("ReconcileAvailability: Reconcile failed", err)
		return err
	}

	logger.Info("ReconcileAvailability: done", map[string]interface{}{
		"dry_run":      result.DryRun,
		"mismatches":   len(result.Mismatches),
		"fixed":        result.Fixed,
		"requested_by": payload.RequestedBy,
	})
	return nil
}
