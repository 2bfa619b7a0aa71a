package postgres

import (
	"context"
	"time"

	"github.com/x036ox/video-api/internal/domain"
	"gorm.io/gorm"
)

type watchHistoryRepository struct {
	db *gorm.DB
}

func (r *watchHistoryRepository) Record(ctx context.Context, userID string, videoID int64, now time.Time, dedupWindow time.Duration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND video_id = ? AND watched_at > ?", userID, videoID, now.Add(-dedupWindow)).
			Delete(&watchHistoryModel{}).Error
		if err != nil {
			return err
		}
		return tx.Create(&watchHistoryModel{UserID: userID, VideoID: videoID, WatchedAt: now}).Error
	})
}

func (r *watchHistoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.WatchEntry, error) {
	var recs []watchHistoryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	entries := make([]domain.WatchEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, domain.WatchEntry{
			ID:        rec.ID,
			UserID:    rec.UserID,
			VideoID:   rec.VideoID,
			WatchedAt: rec.WatchedAt,
		})
	}
	return entries, nil
}

func (r *watchHistoryRepository) DeleteByVideo(ctx context.Context, videoID int64) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&watchHistoryModel{}).Error
}
