package application

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		0:    "00:00",
		59:   "00:59",
		61:   "01:01",
		3600: "01:00:00",
		3725: "01:02:05",
	}
	for seconds, want := range cases {
		if got := formatDuration(seconds); got != want {
			t.Fatalf("formatDuration(%d) = %q, want %q", seconds, got, want)
		}
	}
}

func TestFormatViews(t *testing.T) {
	t.Parallel()

	if got := formatViews(1); got != "1 view" {
		t.Fatalf("formatViews(1) = %q", got)
	}
	if got := formatViews(0); got != "0 views" {
		t.Fatalf("formatViews(0) = %q", got)
	}
	if got := formatViews(42); got != "42 views" {
		t.Fatalf("formatViews(42) = %q", got)
	}
}

func TestHumanizeSince(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := map[time.Duration]string{
		30 * time.Second:       "30 seconds ago",
		time.Minute:            "1 minute ago",
		5 * time.Minute:        "5 minutes ago",
		2 * time.Hour:          "2 hours ago",
		26 * time.Hour:         "1 day ago",
		40 * 24 * time.Hour:    "1 month ago",
		2 * 365 * 24 * time.Hour: "2 years ago",
	}
	for d, want := range cases {
		if got := humanizeSince(now.Add(-d), now); got != want {
			t.Fatalf("humanizeSince(-%v) = %q, want %q", d, got, want)
		}
	}
}
