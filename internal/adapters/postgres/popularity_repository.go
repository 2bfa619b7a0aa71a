package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// popularityRepository ranks videos by like-count inside a trailing window.
// Videos with zero likes in the window never rank.
type popularityRepository struct {
	db *gorm.DB
}

func (r *popularityRepository) TopByUserAffinity(ctx context.Context, userID string, since time.Time, excludes []int64, size int) ([]int64, error) {
	q := r.baseQuery(ctx, since, excludes, size).
		Where(
			`(v.category IN (SELECT category FROM user_category_affinity WHERE user_id = ? AND score > 0)
			  OR v.language IN (SELECT language FROM user_language_affinity WHERE user_id = ? AND score > 0))`,
			userID, userID,
		)
	return pluckIDs(q)
}

func (r *popularityRepository) TopByLanguage(ctx context.Context, language string, since time.Time, excludes []int64, size int) ([]int64, error) {
	q := r.baseQuery(ctx, since, excludes, size).Where("v.language = ?", language)
	return pluckIDs(q)
}

func (r *popularityRepository) TopOverall(ctx context.Context, since time.Time, excludes []int64, size int) ([]int64, error) {
	return pluckIDs(r.baseQuery(ctx, since, excludes, size))
}

func (r *popularityRepository) baseQuery(ctx context.Context, since time.Time, excludes []int64, size int) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("videos AS v").
		Joins("JOIN likes l ON l.video_id = v.id AND l.created_at >= ?", since).
		Group("v.id").
		Order("COUNT(l.id) DESC").
		Limit(size)
	if len(excludes) > 0 {
		q = q.Where("v.id NOT IN ?", excludes)
	}
	return q
}

func pluckIDs(q *gorm.DB) ([]int64, error) {
	var ids []int64
	if err := q.Pluck("v.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
