package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/x036ox/video-api/internal/domain"
	"github.com/x036ox/video-api/internal/ports"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	rec := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var recs []userModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&recs).Error; err != nil {
		return nil, err
	}
	return toDomainUsers(recs), nil
}

func (r *userRepository) Update(ctx context.Context, user domain.User) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username": user.Username,
		"email":    user.Email,
		"picture":  user.Picture,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) FindByOption(ctx context.Context, filter ports.UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&userModel{})
	if filter.ID != "" {
		q = q.Where("id = ?", filter.ID)
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.Username != "" {
		q = q.Where("username = ?", filter.Username)
	}
	if filter.SubscribersFrom != nil && filter.SubscribersTo != nil {
		q = q.Where(
			"(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = users.id) BETWEEN ? AND ?",
			*filter.SubscribersFrom, *filter.SubscribersTo,
		)
	}
	if filter.VideosFrom != nil && filter.VideosTo != nil {
		q = q.Where(
			"(SELECT COUNT(*) FROM videos v WHERE v.owner_id = users.id) BETWEEN ? AND ?",
			*filter.VideosFrom, *filter.VideosTo,
		)
	}
	var recs []userModel
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find users by option: %w", err)
	}
	return toDomainUsers(recs), nil
}
