package application

import (
	"fmt"
	"time"
)

type Config struct {
	ServiceName         string
	MaxVideosPerRequest int
	PopularityDays      int
	WatchDedupWindow    time.Duration
	MaxSearchHistory    int
	ProcessingTimeout   time.Duration
	VideoCacheTTL       time.Duration
	DefaultUserPicture  string
	DefaultLanguage     string
	SeedWorkers         int
}

const (
	videoPathPrefix   = "videos/"
	userPathPrefix    = "users/"
	thumbnailFilename = "thumbnail.jpg"
	pictureFilename   = "picture.png"
	videoFilename     = "index.mp4"
	playlistFilename  = "index.m3u8"
)

type RegisterUserRequest struct {
	ID          string `json:"id,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Authorities string `json:"authorities,omitempty"`
	Picture     string `json:"picture,omitempty"`
}

type UpdateUserRequest struct {
	Email   *string
	Picture []byte
}

type CreateVideoRequest struct {
	Title       string
	Description string
	Category    string
	Thumbnail   []byte
	Video       []byte
}

type UpdateVideoRequest struct {
	VideoID     int64
	Title       *string
	Description *string
	Category    *string
	Thumbnail   []byte
	Video       []byte
}

type UserView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Subscribers int64  `json:"subscribers"`
}

type VideoView struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Duration       string `json:"duration"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Views          string `json:"views"`
	Likes          int64  `json:"likes"`
	UploadDate     string `json:"uploadDate"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category"`
	ChannelID      string `json:"channelId"`
	CreatorName    string `json:"creatorName"`
	CreatorPicture string `json:"creatorPicture,omitempty"`
}

// VideoSort orders video listings; the zero value keeps repository order.
type VideoSort int

const (
	SortNone VideoSort = iota
	SortByUploadDateDesc
	SortByViewsDesc
	SortByDurationAsc
)

func VideoSortFromOption(option int) (VideoSort, error) {
	if option < int(SortNone) || option > int(SortByDurationAsc) {
		return SortNone, fmt.Errorf("unknown sort option %d", option)
	}
	return VideoSort(option), nil
}

func formatViews(views int64) string {
	if views == 1 {
		return "1 view"
	}
	return fmt.Sprintf("%d views", views)
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func humanizeSince(t, now time.Time) string {
	d := now.Sub(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	switch {
	case d >= 365*24*time.Hour:
		return plural(int(d/(365*24*time.Hour)), "year")
	case d >= 30*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month")
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		seconds := int(d / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		return fmt.Sprintf("%d seconds ago", seconds)
	}
}
