package postgres

import (
	"context"
	"time"

	"github.com/x036ox/video-api/internal/domain"
	"gorm.io/gorm"
)

type searchHistoryRepository struct {
	db *gorm.DB
}

func (r *searchHistoryRepository) Add(ctx context.Context, userID, query string, now time.Time, maxEntries int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND query = ?", userID, query).
			Delete(&searchHistoryModel{}).Error
		if err != nil {
			return err
		}
		if err := tx.Create(&searchHistoryModel{UserID: userID, Query: query, AddedAt: now}).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&searchHistoryModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if int(count) <= maxEntries {
			return nil
		}
		return tx.Exec(
			`DELETE FROM search_history WHERE id IN (
				SELECT id FROM search_history WHERE user_id = ? ORDER BY added_at ASC LIMIT ?
			)`,
			userID, int(count)-maxEntries,
		).Error
	})
}

func (r *searchHistoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.SearchEntry, error) {
	var recs []searchHistoryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	entries := make([]domain.SearchEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, domain.SearchEntry{
			ID:      rec.ID,
			UserID:  rec.UserID,
			Query:   rec.Query,
			AddedAt: rec.AddedAt,
		})
	}
	return entries, nil
}

func (r *searchHistoryRepository) Delete(ctx context.Context, userID, query string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND query = ?", userID, query).
		Delete(&searchHistoryModel{}).Error
}
