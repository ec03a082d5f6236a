package schedule

import (
	"context"
	"testing"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
)

func TestActiveWindowsSortedAndAnchored(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{
		workingDay("14:00", "18:00"),
		workingDay("08:00", "12:00"),
	}

	resolver := NewResolver(repo)

	windows, err := resolver.ActiveWindows(context.Background(), 1, 1, testDay)
	if err != nil {
		t.Fatalf("ActiveWindows: %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if !windows[0].Start.Equal(dayAt(t, "08:00")) || !windows[1].Start.Equal(dayAt(t, "14:00")) {
		t.Errorf("windows not sorted: %v", windows)
	}
	if windows[0].Start.Location() != testDay.Location() {
		t.Error("windows must be anchored in the day's location")
	}
}

func TestActiveWindowsSkipsMalformedRows(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours = []models.WorkingHours{
		workingDay("not-a-time", "12:00"),
		workingDay("12:00", "09:00"),
		workingDay("13:00", "17:00"),
	}

	resolver := NewResolver(repo)

	windows, err := resolver.ActiveWindows(context.Background(), 1, 1, testDay)
	if err != nil {
		t.Fatalf("ActiveWindows: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected only the valid row, got %v", windows)
	}
}

func TestActiveWindowsEmptyDayIsNotAnError(t *testing.T) {
	repo := newFakeRepo()

	resolver := NewResolver(repo)

	windows, err := resolver.ActiveWindows(context.Background(), 1, 1, testDay)
	if err != nil {
		t.Fatalf("ActiveWindows: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected no windows, got %v", windows)
	}
}
