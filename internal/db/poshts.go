package db

import (
	"context"
	"fmt"

	"poshts/internal/models"

	"gorm.io/gorm"
)

func (s *Store) CreatePosht(ctx context.Context, posht *models.Posht) error {
	if err := s.db.WithContext(ctx).Create(posht).Error; err != nil {
		return fmt.Errorf("create posht: %w", err)
	}
	return nil
}

func (s *Store) GetPosht(ctx context.Context, id uint) (*models.Posht, error) {
	var posht models.Posht
	if err := s.db.WithContext(ctx).First(&posht, id).Error; err != nil {
		return nil, translate(err)
	}
	return &posht, nil
}

func (s *Store) ListPoshts(ctx context.Context) ([]models.Posht, error) {
	var poshts []models.Posht
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&poshts).Error; err != nil {
		return nil, fmt.Errorf("list poshts: %w", err)
	}
	return poshts, nil
}

// UpdatePosht writes title, text and the moderation flag of an existing posht.
func (s *Store) UpdatePosht(ctx context.Context, posht *models.Posht) error {
	res := s.db.WithContext(ctx).Model(&models.Posht{}).Where("id = ?", posht.ID).
		Select("title", "posht_text", "is_blocked").
		Updates(map[string]interface{}{
			"title":      posht.Title,
			"posht_text": posht.PoshtText,
			"is_blocked": posht.IsBlocked,
		})
	if res.Error != nil {
		return fmt.Errorf("update posht: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// some drivers report 0 rows for a no-op update
		if _, err := s.GetPosht(ctx, posht.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeletePosht removes a posht and its comments, returning the deleted row.
func (s *Store) DeletePosht(ctx context.Context, id uint) (*models.Posht, error) {
	var posht models.Posht
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&posht, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("posht_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete posht comments: %w", err)
		}
		if err := tx.Delete(&models.Posht{}, id).Error; err != nil {
			return fmt.Errorf("delete posht: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &posht, nil
}
