package shared

// Background task types and queues shared by the API (enqueue side) and the worker
const (
	TypeReconcileAvailability = "loan:reconcile_availability"
	TypeOverdueScan           = "loan:overdue_scan"

	QueueLoans = "loans"
)

// ReconcileAvailabilityPayload asks the worker to repair copy availability.
// With DryRun set the mismatches are only reported
type ReconcileAvailabilityPayload struct {
	DryRun      bool   `json:"dryRun"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

// OverdueScanPayload has no parameters; the scan always uses the current time
type OverdueScanPayload struct{}
