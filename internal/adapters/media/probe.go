package media

import (
	"bytes"
	"fmt"

	mp4 "github.com/abema/go-mp4"
	"github.com/x036ox/video-api/internal/domain"
)

// MP4Prober reads the duration out of an uploaded MP4 container.
type MP4Prober struct{}

func NewMP4Prober() *MP4Prober {
	return &MP4Prober{}
}

func (MP4Prober) DurationSeconds(data []byte) (int, error) {
	info, err := mp4.Probe(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("probe mp4: %w: %v", domain.ErrInvalidArgument, err)
	}
	if info.Timescale == 0 {
		return 0, fmt.Errorf("probe mp4: zero timescale: %w", domain.ErrInvalidArgument)
	}
	return int(info.Duration / uint64(info.Timescale)), nil
}
