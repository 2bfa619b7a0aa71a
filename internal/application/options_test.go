package application

import (
	"errors"
	"testing"

	"github.com/x036ox/video-api/internal/domain"
)

func TestParseVideoOptions(t *testing.T) {
	t.Parallel()

	filter, err := parseVideoOptions(
		[]string{"BY_ID", "BY_TITLE", "BY_VIEWS", "BY_LIKES"},
		[]string{"7", "gopher", "10/100", "1/5"},
	)
	if err != nil {
		t.Fatalf("parseVideoOptions error: %v", err)
	}
	if filter.ID != 7 || filter.Title != "gopher" {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if *filter.ViewsFrom != 10 || *filter.ViewsTo != 100 {
		t.Fatalf("unexpected views range: %v..%v", *filter.ViewsFrom, *filter.ViewsTo)
	}
	if *filter.LikesFrom != 1 || *filter.LikesTo != 5 {
		t.Fatalf("unexpected likes range: %v..%v", *filter.LikesFrom, *filter.LikesTo)
	}
}

func TestParseVideoOptions_LengthMismatch(t *testing.T) {
	t.Parallel()

	if _, err := parseVideoOptions([]string{"BY_ID"}, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseVideoOptions_MalformedRange(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"10", "10/", "/10", "a/b", "1/2/3"} {
		if _, err := parseVideoOptions([]string{"BY_VIEWS"}, []string{value}); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("value %q: expected ErrInvalidArgument, got %v", value, err)
		}
	}
}

func TestParseVideoOptions_MalformedID(t *testing.T) {
	t.Parallel()

	if _, err := parseVideoOptions([]string{"BY_ID"}, []string{"not-a-number"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseUserOptions(t *testing.T) {
	t.Parallel()

	filter, err := parseUserOptions(
		[]string{"BY_EMAIL", "BY_SUBSCRIBERS"},
		[]string{"x@example.com", "0/50"},
	)
	if err != nil {
		t.Fatalf("parseUserOptions error: %v", err)
	}
	if filter.Email != "x@example.com" {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if *filter.SubscribersFrom != 0 || *filter.SubscribersTo != 50 {
		t.Fatalf("unexpected subscribers range: %v..%v", *filter.SubscribersFrom, *filter.SubscribersTo)
	}
}

func TestVideoSortFromOption(t *testing.T) {
	t.Parallel()

	if _, err := VideoSortFromOption(99); err == nil {
		t.Fatalf("expected error for unknown sort option")
	}
	sort, err := VideoSortFromOption(int(SortByViewsDesc))
	if err != nil || sort != SortByViewsDesc {
		t.Fatalf("unexpected sort %v err=%v", sort, err)
	}
}
