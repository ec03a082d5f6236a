package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// fakeQueue mirrors the upsert contract: one open entry per (tenant, staff).
type fakeQueue struct {
	entries    []models.RecalcQueueEntry
	nextID     uint
	enqueueErr error
}

func (q *fakeQueue) Enqueue(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	trigger coresched.Trigger,
) (*models.RecalcQueueEntry, error) {
	if q.enqueueErr != nil {
		return nil, q.enqueueErr
	}
	for i := range q.entries {
		if q.entries[i].TenantID == tenantID && q.entries[i].StaffID == staffID {
			q.entries[i].Trigger = string(trigger)
			q.entries[i].QueuedAt = time.Now()
			q.entries[i].Processed = false
			return &q.entries[i], nil
		}
	}
	q.nextID++
	q.entries = append(q.entries, models.RecalcQueueEntry{
		ID:       q.nextID,
		TenantID: tenantID,
		StaffID:  staffID,
		Trigger:  string(trigger),
		QueuedAt: time.Now(),
	})
	return &q.entries[len(q.entries)-1], nil
}

func (q *fakeQueue) DequeueBatch(ctx context.Context, limit int) ([]models.RecalcQueueEntry, error) {
	var out []models.RecalcQueueEntry
	for _, e := range q.entries {
		if !e.Processed && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (q *fakeQueue) MarkProcessed(ctx context.Context, entryID uint) error {
	for i := range q.entries {
		if q.entries[i].ID == entryID {
			q.entries[i].Processed = true
			return nil
		}
	}
	return errors.New("entry not found")
}

var _ coresched.Queue = (*fakeQueue)(nil)

func TestQueueRecalcEnqueuesAndInvalidatesCache(t *testing.T) {
	q := &fakeQueue{}
	slotCache := newFakeSlotCache()
	slotCache.stored["2026-03-09"] = `[{"start":"08:00","end":"12:00"}]`

	uc := NewQueueRecalc(q, slotCache, zap.NewNop())

	entry, err := uc.Execute(context.Background(), 1, 2, coresched.TriggerAppointment)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if entry.StaffID != 2 || entry.Trigger != string(coresched.TriggerAppointment) {
		t.Fatalf("unexpected entry %+v", entry)
	}

	if len(slotCache.stored) != 0 {
		t.Error("expected cached slots to be invalidated")
	}
}

func TestQueueRecalcDeduplicatesPerStaff(t *testing.T) {
	q := &fakeQueue{}
	uc := NewQueueRecalc(q, newFakeSlotCache(), zap.NewNop())

	first, err := uc.Execute(context.Background(), 1, 2, coresched.TriggerWorkingHours)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := uc.Execute(context.Background(), 1, 2, coresched.TriggerExternalEvent)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if len(q.entries) != 1 {
		t.Fatalf("expected 1 queue entry after two enqueues, got %d", len(q.entries))
	}
	if first.ID != second.ID {
		t.Errorf("expected the same entry reused, got %d and %d", first.ID, second.ID)
	}
	if second.Trigger != string(coresched.TriggerExternalEvent) {
		t.Errorf("expected the trigger refreshed, got %s", second.Trigger)
	}

	// A third staff member gets their own entry.
	if _, err := uc.Execute(context.Background(), 1, 3, coresched.TriggerAppointment); err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if len(q.entries) != 2 {
		t.Fatalf("expected 2 entries for 2 staff, got %d", len(q.entries))
	}
}

func TestQueueRecalcBestEffortSwallowsErrors(t *testing.T) {
	q := &fakeQueue{enqueueErr: errors.New("db down")}
	uc := NewQueueRecalc(q, newFakeSlotCache(), zap.NewNop())

	// Must not panic or propagate; the triggering mutation goes on.
	uc.ExecuteBestEffort(context.Background(), 1, 2, coresched.TriggerAppointment)
}
