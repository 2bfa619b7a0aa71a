package application

import (
	"context"
	"errors"
	"testing"

	"github.com/x036ox/video-api/internal/domain"
)

func TestSeedUsers_CreatesRequestedAmount(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	created, err := env.svc.SeedUsers(context.Background(), 25)
	if err != nil {
		t.Fatalf("SeedUsers error: %v", err)
	}
	if created != 25 {
		t.Fatalf("expected 25 users created, got %d", created)
	}
	users, _ := env.users.List(context.Background())
	if len(users) != 25 {
		t.Fatalf("expected 25 users in repo, got %d", len(users))
	}
}

func TestSeedUsers_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	if _, err := env.svc.SeedUsers(context.Background(), 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSeedVideos_RequiresUsers(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	if _, err := env.svc.SeedVideos(context.Background(), 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without seeded users, got %v", err)
	}
}

func TestSeedVideos_CreatesVideosWithLikes(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()
	if _, err := env.svc.SeedUsers(ctx, 8); err != nil {
		t.Fatalf("SeedUsers error: %v", err)
	}

	created, err := env.svc.SeedVideos(ctx, 10)
	if err != nil {
		t.Fatalf("SeedVideos error: %v", err)
	}
	if created != 10 {
		t.Fatalf("expected 10 videos created, got %d", created)
	}
	if len(env.videos.videos) != 10 {
		t.Fatalf("expected 10 videos in repo, got %d", len(env.videos.videos))
	}
	for _, video := range env.videos.videos {
		if video.Category == "" || video.Title == "" {
			t.Fatalf("seeded video missing fixture data: %+v", video)
		}
	}
}
