package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	db *gorm.DB
}

func (r *likeRepository) Toggle(ctx context.Context, userID string, videoID int64, now time.Time) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec likeModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND video_id = ?", userID, videoID).
			Take(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&likeModel{UserID: userID, VideoID: videoID, CreatedAt: now}).Error
		case err != nil:
			return err
		default:
			liked = false
			return tx.Delete(&likeModel{}, rec.ID).Error
		}
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *likeRepository) Add(ctx context.Context, userID string, videoID int64, at time.Time) error {
	err := r.db.WithContext(ctx).Create(&likeModel{UserID: userID, VideoID: videoID, CreatedAt: at}).Error
	if err != nil && !isUniqueViolation(err) {
		return err
	}
	return nil
}

func (r *likeRepository) Remove(ctx context.Context, userID string, videoID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&likeModel{}).Error
}

func (r *likeRepository) Exists(ctx context.Context, userID string, videoID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&likeModel{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountByVideo(ctx context.Context, videoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&likeModel{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *likeRepository) ListVideoIDsByUser(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&likeModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *likeRepository) DeleteByVideo(ctx context.Context, videoID int64) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&likeModel{}).Error
}
