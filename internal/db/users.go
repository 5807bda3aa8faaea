package db

import (
	"context"
	"errors"
	"fmt"

	"poshts/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts a user; a duplicate email yields ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.GetUserByEmail(ctx, user.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUserPassword replaces the stored hash for the user with this email.
func (s *Store) UpdateUserPassword(ctx context.Context, email, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAutoCommentDelay stores the user's auto-reply delay in seconds (negative disables it).
func (s *Store) SetAutoCommentDelay(ctx context.Context, id uint, delay int) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("auto_comment_delay", delay)
	if res.Error != nil {
		return nil, fmt.Errorf("update auto_comment_delay: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *Store) SetRole(ctx context.Context, id uint, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("update role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
