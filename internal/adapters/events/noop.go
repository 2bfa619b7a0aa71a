package events

import (
	"context"
	"log/slog"
	"time"
)

// NoopProcessor acknowledges every processing request immediately. Used when
// no brokers are configured so the API stays usable without the processing
// pipeline.
type NoopProcessor struct {
	logger *slog.Logger
}

func NewNoopProcessor(logger *slog.Logger) *NoopProcessor {
	return &NoopProcessor{logger: logger}
}

func (p *NoopProcessor) Process(ctx context.Context, kind string, path string, _ time.Duration) (bool, error) {
	p.logger.InfoContext(ctx, "processing skipped, no brokers configured", "kind", kind, "path", path)
	return true, nil
}

func (p *NoopProcessor) VideoCreated(ctx context.Context, videoID int64) error {
	p.logger.InfoContext(ctx, "video created notification skipped, no brokers configured", "video_id", videoID)
	return nil
}
