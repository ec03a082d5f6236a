package schedule

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/cache"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// ======================================================
// SLOT GENERATOR
// ======================================================

type GenerateOptions struct {
	// MinDuration drops gaps too short to book. Zero falls back to the
	// tenant's configured minimum.
	MinDuration time.Duration

	// Degraded is passed through to the busy aggregator. The recalc worker
	// sets it; synchronous callers do not.
	Degraded bool

	// Persist writes the result to availability_days and the redis cache.
	// On-demand reads can skip persistence.
	Persist bool
}

// SlotPair is the wire/storage form of a bookable window, wall-clock in the
// tenant's timezone.
type SlotPair struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SlotGenerator struct {
	repo       coresched.Repository
	resolver   *Resolver
	aggregator *BusyAggregator
	cache      cache.SlotCache
	log        *zap.Logger
}

func NewSlotGenerator(
	repo coresched.Repository,
	resolver *Resolver,
	aggregator *BusyAggregator,
	slotCache cache.SlotCache,
	log *zap.Logger,
) *SlotGenerator {
	return &SlotGenerator{
		repo:       repo,
		resolver:   resolver,
		aggregator: aggregator,
		cache:      slotCache,
		log:        log.Named("slot_generator"),
	}
}

// ForDay computes the bookable windows for one instructor on one day:
// working windows minus the merged busy set, gaps under the minimum duration
// discarded. Pure given its inputs; running it twice yields the same slots.
func (g *SlotGenerator) ForDay(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	day time.Time,
	opts GenerateOptions,
) ([]coresched.TimeRange, error) {

	minDuration := opts.MinDuration
	if minDuration <= 0 {
		tenant, err := g.repo.GetTenantByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		minDuration = time.Duration(tenant.SlotMinDurationMin) * time.Minute
	}

	windows, err := g.resolver.ActiveWindows(ctx, tenantID, staffID, day)
	if err != nil {
		return nil, err
	}

	slots := make([]coresched.TimeRange, 0)

	if len(windows) > 0 {
		dayStart := startOfDay(day)
		dayEnd := dayStart.AddDate(0, 0, 1)

		busy, err := g.aggregator.Collect(ctx, tenantID, staffID, dayStart, dayEnd, CollectOptions{
			Degraded: opts.Degraded,
		})
		if err != nil {
			return nil, err
		}

		busyRanges := coresched.Ranges(busy)
		for _, window := range windows {
			gaps := coresched.SubtractRanges(window, busyRanges)
			slots = append(slots, coresched.FilterMinDuration(gaps, minDuration)...)
		}
	}

	if opts.Persist {
		if err := g.persistDay(ctx, tenantID, staffID, day, slots); err != nil {
			return nil, err
		}
	}

	return slots, nil
}

// ForRange generates and returns slots per day over [from, to] inclusive.
func (g *SlotGenerator) ForRange(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
	opts GenerateOptions,
) (map[string][]coresched.TimeRange, error) {

	out := make(map[string][]coresched.TimeRange)

	for day := startOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		slots, err := g.ForDay(ctx, tenantID, staffID, day, opts)
		if err != nil {
			return nil, err
		}
		out[day.Format("2006-01-02")] = slots
	}

	return out, nil
}

func (g *SlotGenerator) persistDay(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	day time.Time,
	slots []coresched.TimeRange,
) error {

	date := day.Format("2006-01-02")

	// Busy-derived boundaries carry whatever location the DB driver returned;
	// re-anchor in the day's (tenant) location before rendering wall-clock.
	loc := day.Location()
	pairs := make([]SlotPair, 0, len(slots))
	for _, s := range slots {
		pairs = append(pairs, SlotPair{
			Start: s.Start.In(loc).Format("15:04"),
			End:   s.End.In(loc).Format("15:04"),
		})
	}

	payload, err := json.Marshal(pairs)
	if err != nil {
		return err
	}

	if err := g.repo.UpsertAvailabilityDay(ctx, &models.AvailabilityDay{
		TenantID:    tenantID,
		StaffID:     staffID,
		Date:        date,
		Slots:       string(payload),
		GeneratedAt: time.Now(),
	}); err != nil {
		return err
	}

	if g.cache != nil {
		g.cache.StoreDay(ctx, tenantID, staffID, date, string(payload))
	}

	g.log.Debug("slots generated",
		zap.Uint("staffId", staffID),
		zap.String("date", date),
		zap.Int("count", len(pairs)),
	)

	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
