package schedule

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

func newTestGenerator(repo *fakeRepo, slotCache *fakeSlotCache) *SlotGenerator {
	log := zap.NewNop()
	resolver := NewResolver(repo)
	aggregator := NewBusyAggregator(repo, log)
	return NewSlotGenerator(repo, resolver, aggregator, slotCache, log)
}

func workingDay(start, end string) models.WorkingHours {
	return models.WorkingHours{
		Weekday:   int(testDay.Weekday()),
		Active:    true,
		StartTime: start,
		EndTime:   end,
	}
}

func assertSlots(t *testing.T, got []coresched.TimeRange, want [][2]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Start.Format("15:04") != w[0] || got[i].End.Format("15:04") != w[1] {
			t.Errorf("slot %d: expected %s-%s, got %s-%s",
				i, w[0], w[1],
				got[i].Start.Format("15:04"), got[i].End.Format("15:04"),
			)
		}
	}
}

func TestForDaySplitsWindowAroundLesson(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "12:00")}
	repo.appointments = []models.Appointment{
		{StartTime: dayAt(t, "09:00"), EndTime: dayAt(t, "10:00")},
	}

	gen := newTestGenerator(repo, newFakeSlotCache())

	slots, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{})
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	assertSlots(t, slots, [][2]string{
		{"08:00", "09:00"},
		{"10:00", "12:00"},
	})
}

func TestForDayMergesOverlappingBusyBlocks(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "12:00")}
	repo.appointments = []models.Appointment{
		{StartTime: dayAt(t, "08:00"), EndTime: dayAt(t, "08:30")},
	}
	repo.external = []models.ExternalBusyTime{
		{StartTime: dayAt(t, "08:20"), EndTime: dayAt(t, "09:00")},
	}

	gen := newTestGenerator(repo, newFakeSlotCache())

	slots, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{})
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	// Overlapping blocks subtract as one merged 08:00-09:00 interval.
	assertSlots(t, slots, [][2]string{
		{"09:00", "12:00"},
	})
}

func TestForDayDropsShortGaps(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "12:00")}
	repo.appointments = []models.Appointment{
		// Leaves a 30-minute gap before it, under the 45-minute minimum.
		{StartTime: dayAt(t, "08:30"), EndTime: dayAt(t, "10:00")},
	}

	gen := newTestGenerator(repo, newFakeSlotCache())

	slots, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{})
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	assertSlots(t, slots, [][2]string{
		{"10:00", "12:00"},
	})
}

func TestForDayEmptyWhenNotWorking(t *testing.T) {
	repo := newFakeRepo()
	// No working hours at all for the weekday.
	repo.appointments = []models.Appointment{
		{StartTime: dayAt(t, "09:00"), EndTime: dayAt(t, "10:00")},
	}

	gen := newTestGenerator(repo, newFakeSlotCache())

	slots, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{})
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a non-working day, got %v", slots)
	}
}

func TestForDayIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{
		workingDay("08:00", "12:00"),
		workingDay("14:00", "18:00"),
	}
	repo.appointments = []models.Appointment{
		{StartTime: dayAt(t, "10:00"), EndTime: dayAt(t, "11:00")},
		{StartTime: dayAt(t, "15:30"), EndTime: dayAt(t, "16:30")},
	}

	gen := newTestGenerator(repo, newFakeSlotCache())

	first, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{})
	if err != nil {
		t.Fatalf("first ForDay: %v", err)
	}
	second, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{})
	if err != nil {
		t.Fatalf("second ForDay: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs disagree: %v vs %v", first, second)
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}

func TestForDaySlotsNeverOverlapBusy(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{workingDay("07:00", "19:00")}
	repo.appointments = []models.Appointment{
		{StartTime: dayAt(t, "08:00"), EndTime: dayAt(t, "09:15")},
		{StartTime: dayAt(t, "12:00"), EndTime: dayAt(t, "13:00")},
		{StartTime: dayAt(t, "12:30"), EndTime: dayAt(t, "14:00")},
	}
	repo.external = []models.ExternalBusyTime{
		{StartTime: dayAt(t, "16:00"), EndTime: dayAt(t, "17:00")},
	}

	gen := newTestGenerator(repo, newFakeSlotCache())

	slots, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{})
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	busy := []coresched.TimeRange{
		{Start: dayAt(t, "08:00"), End: dayAt(t, "09:15")},
		{Start: dayAt(t, "12:00"), End: dayAt(t, "14:00")},
		{Start: dayAt(t, "16:00"), End: dayAt(t, "17:00")},
	}
	for _, slot := range slots {
		for _, b := range busy {
			if slot.Overlaps(b) {
				t.Errorf("slot %v overlaps busy block %v", slot, b)
			}
		}
	}
}

func TestForDayPersistsSlotsAndCache(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "10:00")}

	slotCache := newFakeSlotCache()
	gen := newTestGenerator(repo, slotCache)

	if _, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{Persist: true}); err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	if len(repo.upserted) != 1 {
		t.Fatalf("expected 1 availability row, got %d", len(repo.upserted))
	}

	row := repo.upserted[0]
	if row.Date != testDay.Format("2006-01-02") {
		t.Errorf("unexpected date %q", row.Date)
	}
	want := `[{"start":"08:00","end":"10:00"}]`
	if row.Slots != want {
		t.Errorf("stored slots = %s, want %s", row.Slots, want)
	}

	if cached, ok := slotCache.stored[row.Date]; !ok || cached != want {
		t.Errorf("cache copy = %q, want %q", cached, want)
	}
}

func TestForDayRendersTenantWallClock(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, loc)

	repo := newFakeRepo()
	repo.tenant.Timezone = "Europe/Zurich"
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "12:00")}
	// The driver hands rows back as UTC instants: 09:00-10:00 Zurich wall
	// clock is 08:00-09:00 UTC.
	repo.appointments = []models.Appointment{
		{
			StartTime: time.Date(2026, time.March, 9, 9, 0, 0, 0, loc).UTC(),
			EndTime:   time.Date(2026, time.March, 9, 10, 0, 0, 0, loc).UTC(),
		},
	}

	slotCache := newFakeSlotCache()
	gen := newTestGenerator(repo, slotCache)

	if _, err := gen.ForDay(context.Background(), 1, 1, day, GenerateOptions{Persist: true}); err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	if len(repo.upserted) != 1 {
		t.Fatalf("expected 1 availability row, got %d", len(repo.upserted))
	}

	want := `[{"start":"08:00","end":"09:00"},{"start":"10:00","end":"12:00"}]`
	if got := repo.upserted[0].Slots; got != want {
		t.Errorf("stored slots = %s, want %s", got, want)
	}
	if cached := slotCache.stored[day.Format("2006-01-02")]; cached != want {
		t.Errorf("cached slots = %s, want %s", cached, want)
	}
}

func TestForRangeCoversEveryDay(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "10:00")}

	gen := newTestGenerator(repo, newFakeSlotCache())

	from := testDay
	to := testDay.AddDate(0, 0, 6)

	days, err := gen.ForRange(context.Background(), 1, 1, from, to, GenerateOptions{})
	if err != nil {
		t.Fatalf("ForRange: %v", err)
	}

	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}

	// Only one weekday has working hours configured.
	withSlots := 0
	for _, slots := range days {
		if len(slots) > 0 {
			withSlots++
		}
	}
	if withSlots != 1 {
		t.Errorf("expected slots on exactly 1 day, got %d", withSlots)
	}
}

func TestForDayExplicitMinDurationSkipsTenantLookup(t *testing.T) {
	repo := newFakeRepo()
	repo.tenant = nil
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "12:00")}

	gen := newTestGenerator(repo, newFakeSlotCache())

	// With the minimum supplied, generation needs no tenant row at all.
	slots, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{
		MinDuration: 45 * time.Minute,
	})
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	assertSlots(t, slots, [][2]string{
		{"08:00", "12:00"},
	})
}

func TestForDayUsesExplicitMinDuration(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{workingDay("08:00", "12:00")}
	repo.appointments = []models.Appointment{
		{StartTime: dayAt(t, "08:30"), EndTime: dayAt(t, "10:00")},
	}

	gen := newTestGenerator(repo, newFakeSlotCache())

	// 30-minute gap survives once the minimum is lowered below the tenant
	// default.
	slots, err := gen.ForDay(context.Background(), 1, 1, testDay, GenerateOptions{
		MinDuration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}

	assertSlots(t, slots, [][2]string{
		{"08:00", "08:30"},
		{"10:00", "12:00"},
	})
}
