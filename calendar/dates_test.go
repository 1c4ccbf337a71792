package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := ParseDate("2024-03-15", loc)
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("ParseDate() = %v, want %v", got, want)
	}

	if _, err := ParseDate("15/03/2024", loc); err == nil {
		t.Error("ParseDate() should reject non ISO dates")
	}
	if _, err := ParseDate("2023-02-29", nil); err == nil {
		t.Error("ParseDate() should reject dates that do not exist")
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2000, time.January, 1, 13, 0, 0, 0, time.UTC))
	if got != "2000-01-01" {
		t.Errorf("FormatDate() = %q, want %q", got, "2000-01-01")
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, time.February, 27, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)

	var got []string
	err := DaysBetween(start, end, func(day time.Time) error {
		got = append(got, FormatDate(day))
		return nil
	})
	if err != nil {
		t.Fatalf("DaysBetween() error = %v", err)
	}

	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(got) != len(want) {
		t.Fatalf("DaysBetween() visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDaysBetween_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	visited := 0
	err := DaysBetween(start, end, func(day time.Time) error {
		visited++
		if visited == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("DaysBetween() error = %v, want %v", err, stop)
	}
	if visited != 3 {
		t.Errorf("visited = %d, want 3", visited)
	}
}

func TestDaysBetween_MixedLocations(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	// 22:00 on March 3 in BRT is already March 4 in UTC
	end := time.Date(2024, time.March, 3, 22, 0, 0, 0, brt)

	var got []string
	err := DaysBetween(start, end, func(day time.Time) error {
		if day.Location() != time.UTC {
			t.Errorf("day %s not in the start location", FormatDate(day))
		}
		got = append(got, FormatDate(day))
		return nil
	})
	if err != nil {
		t.Fatalf("DaysBetween() error = %v", err)
	}

	if len(got) != DaysInRange(start, end) {
		t.Errorf("DaysBetween() visited %d days, DaysInRange() = %d", len(got), DaysInRange(start, end))
	}
	if last := got[len(got)-1]; last != "2024-03-04" {
		t.Errorf("last day = %s, want 2024-03-04", last)
	}
}

func TestDaysInRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 1},
		{"leap year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 366},
		{"reversed", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInRange(tt.start, tt.end); got != tt.want {
				t.Errorf("DaysInRange() = %d, want %d", got, tt.want)
			}
		})
	}
}
