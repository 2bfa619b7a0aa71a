package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/x036ox/video-api/internal/domain"
	"github.com/x036ox/video-api/internal/ports"
	"gorm.io/gorm"
)

type videoRepository struct {
	db *gorm.DB
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	rec := toVideoModel(*video)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	video.ID = rec.ID
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (domain.Video, error) {
	var rec videoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Video{}, domain.ErrNotFound
		}
		return domain.Video{}, err
	}
	return toDomainVideo(rec), nil
}

func (r *videoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&videoModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *videoRepository) Update(ctx context.Context, video domain.Video) error {
	res := r.db.WithContext(ctx).Model(&videoModel{}).Where("id = ?", video.ID).Updates(map[string]any{
		"title":            video.Title,
		"description":      video.Description,
		"category":         video.Category,
		"language":         video.Language,
		"duration_seconds": video.DurationSeconds,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&videoModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Video, error) {
	var recs []videoModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("upload_date DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return toDomainVideos(recs), nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views int64
	err := r.db.WithContext(ctx).
		Raw("UPDATE videos SET views = views + 1 WHERE id = ? RETURNING views", id).
		Scan(&views).Error
	if err != nil {
		return 0, err
	}
	return views, nil
}

func (r *videoRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&videoModel{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *videoRepository) FindByOption(ctx context.Context, filter ports.VideoFilter) ([]domain.Video, error) {
	q := r.db.WithContext(ctx).Model(&videoModel{})
	if filter.ID != 0 {
		q = q.Where("id = ?", filter.ID)
	}
	if filter.Title != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.ViewsFrom != nil && filter.ViewsTo != nil {
		q = q.Where("views BETWEEN ? AND ?", *filter.ViewsFrom, *filter.ViewsTo)
	}
	if filter.LikesFrom != nil && filter.LikesTo != nil {
		q = q.Where(
			"(SELECT COUNT(*) FROM likes l WHERE l.video_id = videos.id) BETWEEN ? AND ?",
			*filter.LikesFrom, *filter.LikesTo,
		)
	}
	var recs []videoModel
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find videos by option: %w", err)
	}
	return toDomainVideos(recs), nil
}
