package job

import (
	"context"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/logger"
)

// OverdueScanHandler logs how many loans are overdue and what they owe
type OverdueScanHandler struct {
	service service.ServiceInterface
}

func NewOverdueScanHandler(svc service.ServiceInterface) *OverdueScanHandler {
	return &OverdueScanHandler{service: svc}
}

func (h *OverdueScanHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	summary, err := h.service.OverdueSummary(ctx, utils.Now())
	if err != nil {
		logger.Error("OverdueScan: summary failed", err)
		return err
	}

	logger.Info("OverdueScan: done", map[string]interface{}{
		"overdue":    summary.Count,
		"total_fine": summary.TotalFine.StringFixed(2),
	})

	for _, l := range summary.Loans {
		logger.Warn("OverdueScan: loan overdue", map[string]interface{}{
			"loan_id":      l.ID.String(),
			"member_id":    l.MemberID.String(),
			"copy_id":      l.CopyID.String(),
			"days_overdue": l.DaysOverdue,
			"fine":         l.Fine.StringFixed(2),
		})
	}
	return nil
}
