package application

import (
	"context"
	"errors"
	"testing"

	"github.com/x036ox/video-api/internal/domain"
)

func TestGetRecommendations_RequiresLanguages(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	_, err := env.svc.GetRecommendations(context.Background(), "", nil, nil, 5)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGetRecommendations_UnknownUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	_, err := env.svc.GetRecommendations(context.Background(), "ghost", nil, []string{"en"}, 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestGetRecommendations_PersonalTierFillsFirst(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.addUser("u1")
	env.popularity.affinityIDs = []int64{1, 2, 3}
	env.popularity.languageIDs["en"] = []int64{4, 5}
	env.popularity.overallIDs = []int64{6, 7}

	ids, err := env.svc.GetRecommendations(context.Background(), "u1", nil, []string{"en"}, 3)
	if err != nil {
		t.Fatalf("GetRecommendations error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
	if env.popularity.affinityCalls != 1 {
		t.Fatalf("expected one personal tier call, got %d", env.popularity.affinityCalls)
	}
	if env.popularity.languageCalls != 0 || env.popularity.overallCalls != 0 {
		t.Fatalf("lower tiers queried although personal tier filled the request: lang=%d overall=%d",
			env.popularity.languageCalls, env.popularity.overallCalls)
	}
}

func TestGetRecommendations_AnonymousSkipsPersonalTier(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.popularity.affinityIDs = []int64{1}
	env.popularity.languageIDs["en"] = []int64{2, 3}

	ids, err := env.svc.GetRecommendations(context.Background(), "", nil, []string{"en"}, 2)
	if err != nil {
		t.Fatalf("GetRecommendations error: %v", err)
	}
	if env.popularity.affinityCalls != 0 {
		t.Fatalf("personal tier queried for anonymous request")
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
}

func TestGetRecommendations_LanguagePriorityOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.popularity.languageIDs["de"] = []int64{1, 2}
	env.popularity.languageIDs["en"] = []int64{3, 4}

	ids, err := env.svc.GetRecommendations(context.Background(), "", nil, []string{"de", "en"}, 2)
	if err != nil {
		t.Fatalf("GetRecommendations error: %v", err)
	}
	got := map[int64]bool{}
	for _, id := range ids {
		got[id] = true
	}
	if !got[1] || !got[2] {
		t.Fatalf("expected first-priority language to fill the request, got %v", ids)
	}
	if env.popularity.languageCalls != 1 {
		t.Fatalf("expected a single language query, got %d", env.popularity.languageCalls)
	}
}

func TestGetRecommendations_FallsBackToOverall(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.popularity.languageIDs["en"] = []int64{1}
	env.popularity.overallIDs = []int64{2, 3, 4}

	ids, err := env.svc.GetRecommendations(context.Background(), "", nil, []string{"en"}, 3)
	if err != nil {
		t.Fatalf("GetRecommendations error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected generic tier to fill the gap, got %v", ids)
	}
	if env.popularity.overallCalls != 1 {
		t.Fatalf("expected one generic tier call, got %d", env.popularity.overallCalls)
	}
}

func TestGetRecommendations_NoDuplicatesAcrossTiers(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.addUser("u1")
	env.popularity.affinityIDs = []int64{1, 2}
	env.popularity.languageIDs["en"] = []int64{2, 3}
	env.popularity.overallIDs = []int64{1, 2, 3, 4, 5}

	ids, err := env.svc.GetRecommendations(context.Background(), "u1", nil, []string{"en"}, 5)
	if err != nil {
		t.Fatalf("GetRecommendations error: %v", err)
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d in %v", id, ids)
		}
		seen[id] = true
	}
	if len(ids) != 5 {
		t.Fatalf("expected 5 unique ids, got %v", ids)
	}
}

func TestGetRecommendations_HonorsExcludes(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.popularity.languageIDs["en"] = []int64{1, 2, 3}
	env.popularity.overallIDs = []int64{1, 2, 3, 4}

	ids, err := env.svc.GetRecommendations(context.Background(), "", []int64{1, 2}, []string{"en"}, 4)
	if err != nil {
		t.Fatalf("GetRecommendations error: %v", err)
	}
	for _, id := range ids {
		if id == 1 || id == 2 {
			t.Fatalf("excluded id %d returned in %v", id, ids)
		}
	}
}

func TestGetRecommendations_SizeClampedToMax(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	for i := int64(1); i <= 60; i++ {
		env.popularity.overallIDs = append(env.popularity.overallIDs, i)
	}
	env.popularity.languageIDs["en"] = env.popularity.overallIDs

	ids, err := env.svc.GetRecommendations(context.Background(), "", nil, []string{"en"}, 100)
	if err != nil {
		t.Fatalf("GetRecommendations error: %v", err)
	}
	if len(ids) > 20 {
		t.Fatalf("expected at most 20 ids, got %d", len(ids))
	}
}

func TestRecommendedVideos_DropsVanishedIDs(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	owner := env.addUser("owner")
	video := env.addVideo(owner.ID, "Music", "en")
	env.popularity.languageIDs["en"] = []int64{video.ID, 999}

	views, err := env.svc.RecommendedVideos(context.Background(), "", nil, []string{"en"}, 2, SortNone)
	if err != nil {
		t.Fatalf("RecommendedVideos error: %v", err)
	}
	if len(views) != 1 || views[0].ID != video.ID {
		t.Fatalf("expected only the existing video, got %+v", views)
	}
}
