package postgres

import (
	"context"

	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, subscriberID, channelID string) error {
	err := r.db.WithContext(ctx).Create(&subscriptionModel{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}).Error
	if err != nil && !isUniqueViolation(err) {
		return err
	}
	return nil
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, subscriberID, channelID string) error {
	return r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&subscriptionModel{}).Error
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&subscriptionModel{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *subscriptionRepository) ListChannels(ctx context.Context, subscriberID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&subscriptionModel{}).
		Where("subscriber_id = ?", subscriberID).
		Pluck("channel_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&subscriptionModel{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
