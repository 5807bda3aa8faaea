package db

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store is the repository over users, poshts and comments.
type Store struct {
	db *gorm.DB
}

func NewStore(g *gorm.DB) *Store {
	return &Store{db: g}
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
