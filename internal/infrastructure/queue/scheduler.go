package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/config"
	"library-backend/internal/shared"
	"library-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.WorkerConfig
}

func NewScheduler(redis asynq.RedisConnOpt, cfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

// RegisterLoanJobs registers the periodic loan maintenance tasks
func (s *Scheduler) RegisterLoanJobs() error {
	if err := s.registerReconcileJob(); err != nil {
		return err
	}

	if err := s.registerOverdueScanJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Reconcile copy availability
// ================================================
func (s *Scheduler) registerReconcileJob() error {
	task, err := NewReconcileAvailabilityTask(shared.ReconcileAvailabilityPayload{RequestedBy: "scheduler"})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.cfg.ReconcileCron,
		task,
		asynq.Queue(shared.QueueLoans),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ReconcileAvailability job", err)
		return err
	}

	logger.Info("✓ Registered ReconcileAvailability", map[string]interface{}{"cron": s.cfg.ReconcileCron})
	return nil
}

// ================================================
// JOB 2: Overdue scan
// ================================================
func (s *Scheduler) registerOverdueScanJob() error {
	task, err := NewOverdueScanTask()
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.cfg.OverdueCron,
		task,
		asynq.Queue(shared.QueueLoans),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register OverdueScan job", err)
		return err
	}

	logger.Info("✓ Registered OverdueScan", map[string]interface{}{"cron": s.cfg.OverdueCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
