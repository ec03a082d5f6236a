package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/config"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

type memQueue struct {
	entries []models.RecalcQueueEntry
}

func (q *memQueue) Enqueue(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	trigger schedule.Trigger,
) (*models.RecalcQueueEntry, error) {
	entry := models.RecalcQueueEntry{
		ID:       uint(len(q.entries) + 1),
		TenantID: tenantID,
		StaffID:  staffID,
		Trigger:  string(trigger),
		QueuedAt: time.Now(),
	}
	q.entries = append(q.entries, entry)
	return &q.entries[len(q.entries)-1], nil
}

func (q *memQueue) DequeueBatch(ctx context.Context, limit int) ([]models.RecalcQueueEntry, error) {
	var out []models.RecalcQueueEntry
	for _, e := range q.entries {
		if !e.Processed && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (q *memQueue) MarkProcessed(ctx context.Context, entryID uint) error {
	for i := range q.entries {
		if q.entries[i].ID == entryID {
			q.entries[i].Processed = true
			return nil
		}
	}
	return errors.New("entry not found")
}

var _ schedule.Queue = (*memQueue)(nil)

type memRepo struct {
	tenantErr error
	upserted  []models.AvailabilityDay
}

func (r *memRepo) GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error) {
	if r.tenantErr != nil {
		return nil, r.tenantErr
	}
	return &models.Tenant{
		Timezone:           "UTC",
		SlotMinDurationMin: 45,
	}, nil
}

func (r *memRepo) ListActiveWorkingHours(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	weekday int,
) ([]models.WorkingHours, error) {
	return []models.WorkingHours{
		{Weekday: weekday, Active: true, StartTime: "08:00", EndTime: "12:00"},
	}, nil
}

func (r *memRepo) ListOccupyingAppointments(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
	excludeAppointmentID *uint,
) ([]models.Appointment, error) {
	return nil, nil
}

func (r *memRepo) ListExternalBusyTimes(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.ExternalBusyTime, error) {
	return nil, nil
}

func (r *memRepo) UpsertAvailabilityDay(ctx context.Context, day *models.AvailabilityDay) error {
	r.upserted = append(r.upserted, *day)
	return nil
}

var _ schedule.Repository = (*memRepo)(nil)

func newTestWorker(q schedule.Queue, repo schedule.Repository) *Worker {
	log := zap.NewNop()
	resolver := ucschedule.NewResolver(repo)
	aggregator := ucschedule.NewBusyAggregator(repo, log)
	generator := ucschedule.NewSlotGenerator(repo, resolver, aggregator, nil, log)

	cfg := &config.Config{
		RecalcCronSpec:    "* * * * *",
		RecalcBatchSize:   10,
		RecalcHorizonDays: 3,
	}

	return NewWorker(q, repo, generator, cfg, log)
}

func TestRunOnceDrainsQueue(t *testing.T) {
	q := &memQueue{}
	repo := &memRepo{}

	if _, err := q.Enqueue(context.Background(), 1, 2, schedule.TriggerAppointment); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := q.Enqueue(context.Background(), 1, 3, schedule.TriggerWorkingHours); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	w := newTestWorker(q, repo)
	w.RunOnce(context.Background())

	for _, e := range q.entries {
		if !e.Processed {
			t.Errorf("entry for staff %d still queued", e.StaffID)
		}
	}

	// 2 staff over a 3-day horizon.
	if len(repo.upserted) != 6 {
		t.Errorf("expected 6 availability rows, got %d", len(repo.upserted))
	}
}

func TestRunOnceLeavesFailedEntriesQueued(t *testing.T) {
	q := &memQueue{}
	repo := &memRepo{tenantErr: errors.New("db down")}

	if _, err := q.Enqueue(context.Background(), 1, 2, schedule.TriggerAppointment); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	w := newTestWorker(q, repo)
	w.RunOnce(context.Background())

	if q.entries[0].Processed {
		t.Error("failed entry must stay queued for the next tick")
	}

	// Next tick after recovery drains it.
	repo.tenantErr = nil
	w.RunOnce(context.Background())

	if !q.entries[0].Processed {
		t.Error("entry should be processed once the repo recovers")
	}
}

func TestRunOnceEmptyQueueIsANoOp(t *testing.T) {
	q := &memQueue{}
	repo := &memRepo{}

	w := newTestWorker(q, repo)
	w.RunOnce(context.Background())

	if len(repo.upserted) != 0 {
		t.Errorf("expected no work on an empty queue, got %d rows", len(repo.upserted))
	}
}
