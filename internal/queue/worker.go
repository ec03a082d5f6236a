package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/config"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	"github.com/fahrwerk/driveschool-scheduler/internal/timezone"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

// Worker drains the recalc queue on a cron schedule and regenerates the
// availability slots for each queued instructor over the configured horizon.
type Worker struct {
	queue     schedule.Queue
	repo      schedule.Repository
	generator *ucschedule.SlotGenerator

	batchSize   int
	horizonDays int
	cronSpec    string

	cron *cron.Cron
	log  *zap.Logger
}

func NewWorker(
	q schedule.Queue,
	repo schedule.Repository,
	generator *ucschedule.SlotGenerator,
	cfg *config.Config,
	log *zap.Logger,
) *Worker {
	return &Worker{
		queue:       q,
		repo:        repo,
		generator:   generator,
		batchSize:   cfg.RecalcBatchSize,
		horizonDays: cfg.RecalcHorizonDays,
		cronSpec:    cfg.RecalcCronSpec,
		log:         log.Named("recalc_worker"),
	}
}

// Start schedules the drain loop. Runs until Stop.
func (w *Worker) Start() error {
	w.cron = cron.New()

	if _, err := w.cron.AddFunc(w.cronSpec, func() {
		w.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	w.cron.Start()
	w.log.Info("recalc worker started", zap.String("spec", w.cronSpec))
	return nil
}

func (w *Worker) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

// RunOnce drains one batch. Entries that fail stay queued and are retried on
// the next tick; entries that succeed are marked processed.
func (w *Worker) RunOnce(ctx context.Context) {
	entries, err := w.queue.DequeueBatch(ctx, w.batchSize)
	if err != nil {
		w.log.Error("failed to dequeue recalc batch", zap.Error(err))
		return
	}
	if len(entries) == 0 {
		return
	}

	runID := uuid.New()
	w.log.Info("recalc batch started",
		zap.String("runId", runID.String()),
		zap.Int("entries", len(entries)),
	)

	for _, entry := range entries {
		if err := w.processEntry(ctx, entry.TenantID, entry.StaffID); err != nil {
			w.log.Error("recalc failed, leaving entry queued",
				zap.String("runId", runID.String()),
				zap.Uint("staffId", entry.StaffID),
				zap.String("trigger", entry.Trigger),
				zap.Error(err),
			)
			continue
		}

		if err := w.queue.MarkProcessed(ctx, entry.ID); err != nil {
			w.log.Error("failed to mark entry processed",
				zap.String("runId", runID.String()),
				zap.Uint("entryId", entry.ID),
				zap.Error(err),
			)
		}
	}
}

func (w *Worker) processEntry(ctx context.Context, tenantID, staffID uint) error {
	tenant, err := w.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return err
	}

	now := timezone.NowIn(tenant.Timezone)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, w.horizonDays-1)

	// Degraded mode: a broken external-calendar read should not stall slot
	// regeneration forever; the partial result is logged by the aggregator.
	_, err = w.generator.ForRange(ctx, tenantID, staffID, from, to, ucschedule.GenerateOptions{
		Degraded: true,
		Persist:  true,
	})
	return err
}
