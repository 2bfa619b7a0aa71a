package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/x036ox/video-api/internal/domain"
	"github.com/x036ox/video-api/internal/ports"
)

const (
	correlationHeader = "correlation-id"

	videoInputTopic     = "video_processor.video.input"
	thumbnailInputTopic = "video_processor.thumbnail.input"
	pictureInputTopic   = "video_processor.picture.input"

	videoReplyTopic     = "video_processor.video.reply"
	thumbnailReplyTopic = "video_processor.thumbnail.reply"
	pictureReplyTopic   = "video_processor.picture.reply"

	videoCreatedTopic = "video.created"
)

// KafkaProcessor drives the media-processing request/reply exchange. Each
// request carries a correlation id header; a background reader matches replies
// back to the waiting caller. Replies carry "true" or "false" in the value.
type KafkaProcessor struct {
	writer *kafka.Writer
	reader *kafka.Reader
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]chan bool
}

func NewKafkaProcessor(brokers []string, groupID string, logger *slog.Logger) (*KafkaProcessor, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka processor requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka processor requires group id")
	}
	p := &KafkaProcessor{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			GroupTopics: []string{videoReplyTopic, thumbnailReplyTopic, pictureReplyTopic},
			MinBytes:    1,
			MaxBytes:    10e6,
			MaxWait:     500 * time.Millisecond,
		}),
		logger:  logger,
		pending: make(map[string]chan bool),
	}
	return p, nil
}

// Run consumes reply topics until ctx is cancelled. Start it once at boot.
func (p *KafkaProcessor) Run(ctx context.Context) {
	for {
		msg, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.ErrorContext(ctx, "read processing reply", "error", err)
			continue
		}
		p.dispatch(msg)
	}
}

func (p *KafkaProcessor) dispatch(msg kafka.Message) {
	var correlationID string
	for _, h := range msg.Headers {
		if h.Key == correlationHeader {
			correlationID = string(h.Value)
			break
		}
	}
	if correlationID == "" {
		return
	}
	ok, _ := strconv.ParseBool(string(msg.Value))

	p.mu.Lock()
	ch, found := p.pending[correlationID]
	if found {
		delete(p.pending, correlationID)
	}
	p.mu.Unlock()
	if found {
		ch <- ok
	}
}

func (p *KafkaProcessor) Process(ctx context.Context, kind string, path string, timeout time.Duration) (bool, error) {
	topic, err := inputTopic(kind)
	if err != nil {
		return false, err
	}
	correlationID := uuid.NewString()
	reply := make(chan bool, 1)

	p.mu.Lock()
	p.pending[correlationID] = reply
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.pending, correlationID)
		p.mu.Unlock()
	}()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(path),
		Value: []byte(path),
		Headers: []kafka.Header{
			{Key: correlationHeader, Value: []byte(correlationID)},
		},
		Time: time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("publish processing request: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ok := <-reply:
		return ok, nil
	case <-timer.C:
		return false, fmt.Errorf("%s processing reply after %s: %w", kind, timeout, domain.ErrProcessingFailed)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *KafkaProcessor) VideoCreated(ctx context.Context, videoID int64) error {
	id := strconv.FormatInt(videoID, 10)
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: videoCreatedTopic,
		Key:   []byte(id),
		Value: []byte(id),
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaProcessor) Close() error {
	if err := p.reader.Close(); err != nil {
		return err
	}
	return p.writer.Close()
}

func inputTopic(kind string) (string, error) {
	switch kind {
	case ports.ProcessingKindVideo:
		return videoInputTopic, nil
	case ports.ProcessingKindThumbnail:
		return thumbnailInputTopic, nil
	case ports.ProcessingKindPicture:
		return pictureInputTopic, nil
	default:
		return "", fmt.Errorf("unknown processing kind %q", kind)
	}
}
