package postgres

import "time"

type userModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Username    string    `gorm:"column:username"`
	Email       string    `gorm:"column:email"`
	Picture     string    `gorm:"column:picture"`
	Authorities string    `gorm:"column:authorities"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

type videoModel struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID         string    `gorm:"column:owner_id"`
	Title           string    `gorm:"column:title"`
	Description     string    `gorm:"column:description"`
	Category        string    `gorm:"column:category"`
	Language        string    `gorm:"column:language"`
	DurationSeconds int       `gorm:"column:duration_seconds"`
	Views           int64     `gorm:"column:views"`
	UploadDate      time.Time `gorm:"column:upload_date"`
}

func (videoModel) TableName() string { return "videos" }

type likeModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string    `gorm:"column:user_id"`
	VideoID   int64     `gorm:"column:video_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (likeModel) TableName() string { return "likes" }

type watchHistoryModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string    `gorm:"column:user_id"`
	VideoID   int64     `gorm:"column:video_id"`
	WatchedAt time.Time `gorm:"column:watched_at"`
}

func (watchHistoryModel) TableName() string { return "watch_history" }

type searchHistoryModel struct {
	ID      int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID  string    `gorm:"column:user_id"`
	Query   string    `gorm:"column:query"`
	AddedAt time.Time `gorm:"column:added_at"`
}

func (searchHistoryModel) TableName() string { return "search_history" }

type subscriptionModel struct {
	SubscriberID string `gorm:"column:subscriber_id;primaryKey"`
	ChannelID    string `gorm:"column:channel_id;primaryKey"`
}

func (subscriptionModel) TableName() string { return "subscriptions" }

type categoryAffinityModel struct {
	UserID   string `gorm:"column:user_id;primaryKey"`
	Category string `gorm:"column:category;primaryKey"`
	Score    int    `gorm:"column:score"`
}

func (categoryAffinityModel) TableName() string { return "user_category_affinity" }

type languageAffinityModel struct {
	UserID   string `gorm:"column:user_id;primaryKey"`
	Language string `gorm:"column:language;primaryKey"`
	Score    int    `gorm:"column:score"`
}

func (languageAffinityModel) TableName() string { return "user_language_affinity" }
