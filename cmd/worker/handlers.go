package main

import (
	"github.com/hibiken/asynq"

	loanJob "library-backend/internal/domains/loan/job"
	"library-backend/internal/shared"
	"library-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	reconcile   *loanJob.ReconcileHandler
	overdueScan *loanJob.OverdueScanHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		reconcile:   loanJob.NewReconcileHandler(c.LoanService),
		overdueScan: loanJob.NewOverdueScanHandler(c.LoanService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeReconcileAvailability, h.reconcile.ProcessTask)
	mux.HandleFunc(shared.TypeOverdueScan, h.overdueScan.ProcessTask)
}
