package postgres

import "github.com/x036ox/video-api/internal/domain"

func toDomainUser(m userModel) domain.User {
	return domain.User{
		ID:          m.ID,
		Username:    m.Username,
		Email:       m.Email,
		Picture:     m.Picture,
		Authorities: m.Authorities,
		CreatedAt:   m.CreatedAt,
	}
}

func toUserModel(u domain.User) userModel {
	return userModel{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Picture:     u.Picture,
		Authorities: u.Authorities,
		CreatedAt:   u.CreatedAt,
	}
}

func toDomainVideo(m videoModel) domain.Video {
	return domain.Video{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		Language:        m.Language,
		DurationSeconds: m.DurationSeconds,
		Views:           m.Views,
		UploadDate:      m.UploadDate,
	}
}

func toVideoModel(v domain.Video) videoModel {
	return videoModel{
		ID:              v.ID,
		OwnerID:         v.OwnerID,
		Title:           v.Title,
		Description:     v.Description,
		Category:        v.Category,
		Language:        v.Language,
		DurationSeconds: v.DurationSeconds,
		Views:           v.Views,
		UploadDate:      v.UploadDate,
	}
}

func toDomainVideos(models []videoModel) []domain.Video {
	out := make([]domain.Video, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainVideo(m))
	}
	return out
}

func toDomainUsers(models []userModel) []domain.User {
	out := make([]domain.User, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainUser(m))
	}
	return out
}
