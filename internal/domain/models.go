package domain

import "time"

type User struct {
	ID          string
	Username    string
	Email       string
	Picture     string
	Authorities string
	CreatedAt   time.Time
}

type Video struct {
	ID              int64
	OwnerID         string
	Title           string
	Description     string
	Category        string
	Language        string
	DurationSeconds int
	Views           int64
	UploadDate      time.Time
}

// Like is a standalone join record between a user and a video. The pair is
// unique; toggling a like twice removes the edge.
type Like struct {
	ID        int64
	UserID    string
	VideoID   int64
	CreatedAt time.Time
}

type WatchEntry struct {
	ID        int64
	UserID    string
	VideoID   int64
	WatchedAt time.Time
}

type SearchEntry struct {
	ID      int64
	UserID  string
	Query   string
	AddedAt time.Time
}

// Affinity holds a user's accumulated preference signal. Entries exist only
// while their score is positive; a score decayed to zero removes the key.
type Affinity struct {
	UserID         string
	CategoryScores map[string]int
	LanguageScores map[string]int
}
