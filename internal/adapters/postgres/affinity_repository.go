package postgres

import (
	"context"
	"errors"

	"github.com/x036ox/video-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type affinityRepository struct {
	db *gorm.DB
}

func (r *affinityRepository) Get(ctx context.Context, userID string) (domain.Affinity, error) {
	aff := domain.Affinity{
		UserID:         userID,
		CategoryScores: map[string]int{},
		LanguageScores: map[string]int{},
	}
	var cats []categoryAffinityModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&cats).Error; err != nil {
		return domain.Affinity{}, err
	}
	for _, c := range cats {
		aff.CategoryScores[c.Category] = c.Score
	}
	var langs []languageAffinityModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&langs).Error; err != nil {
		return domain.Affinity{}, err
	}
	for _, l := range langs {
		aff.LanguageScores[l.Language] = l.Score
	}
	return aff, nil
}

func (r *affinityRepository) IncrementWatch(ctx context.Context, userID, category, language string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`INSERT INTO user_category_affinity (user_id, category, score) VALUES (?, ?, 1)
			 ON CONFLICT (user_id, category) DO UPDATE SET score = user_category_affinity.score + 1`,
			userID, category,
		).Error
		if err != nil {
			return err
		}
		return tx.Exec(
			`INSERT INTO user_language_affinity (user_id, language, score) VALUES (?, ?, 1)
			 ON CONFLICT (user_id, language) DO UPDATE SET score = user_language_affinity.score + 1`,
			userID, language,
		).Error
	})
}

func (r *affinityRepository) DecayCategory(ctx context.Context, userID, category string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec categoryAffinityModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND category = ?", userID, category).
			Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		newScore := rec.Score / 4
		if newScore <= 0 {
			return tx.Where("user_id = ? AND category = ?", userID, category).
				Delete(&categoryAffinityModel{}).Error
		}
		return tx.Model(&categoryAffinityModel{}).
			Where("user_id = ? AND category = ?", userID, category).
			Update("score", newScore).Error
	})
}
