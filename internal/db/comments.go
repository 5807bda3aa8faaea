package db

import (
	"context"
	"fmt"
	"time"

	"poshts/internal/models"

	"gorm.io/gorm"
)

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *Store) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *Store) ListComments(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// ListCommentsByPosht returns the comments of one posht, oldest first.
func (s *Store) ListCommentsByPosht(ctx context.Context, poshtID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.WithContext(ctx).Where("posht_id = ?", poshtID).Order("id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments for posht %d: %w", poshtID, err)
	}
	return comments, nil
}

// UpdateComment writes the text and moderation flag of an existing comment.
func (s *Store) UpdateComment(ctx context.Context, comment *models.Comment) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", comment.ID).
		Select("comment_text", "is_blocked").
		Updates(map[string]interface{}{
			"comment_text": comment.CommentText,
			"is_blocked":   comment.IsBlocked,
		})
	if res.Error != nil {
		return fmt.Errorf("update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetComment(ctx, comment.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, id).Error; err != nil {
			return translate(err)
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// CommentStamp is the projection the analytics aggregator works on.
type CommentStamp struct {
	CreatedAt time.Time
	IsBlocked bool
}

// CommentStamps returns created_at and is_blocked for every comment, oldest first.
func (s *Store) CommentStamps(ctx context.Context) ([]CommentStamp, error) {
	var stamps []CommentStamp
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("created_at", "is_blocked").
		Order("created_at ASC").
		Scan(&stamps).Error
	if err != nil {
		return nil, fmt.Errorf("select comment stamps: %w", err)
	}
	return stamps, nil
}
