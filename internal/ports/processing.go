package ports

import (
	"context"
	"time"
)

const (
	ProcessingKindVideo     = "video"
	ProcessingKindThumbnail = "thumbnail"
	ProcessingKindPicture   = "user-picture"
)

// MediaProcessor is the request/reply contract with the external processing
// service: publish an object path, block until the processor acknowledges.
// A false reply or an elapsed timeout means the media was not processed.
type MediaProcessor interface {
	Process(ctx context.Context, kind string, path string, timeout time.Duration) (bool, error)
}

// Notifier publishes fire-and-forget domain notifications (video created).
type Notifier interface {
	VideoCreated(ctx context.Context, videoID int64) error
}
