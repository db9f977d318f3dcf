package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/postly/postly/models"
)

// CreateUser persists a user with an already-hashed credential. The username
// match is case-sensitive exact, backed by a unique index.
func (s *Store) CreateUser(username, passwordHash string) (*models.User, error) {
	var existing models.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrDuplicateUsername
	}

	user := models.User{Username: username, PasswordHash: passwordHash}
	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername looks a user up by exact username.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUser looks a user up by identifier.
func (s *Store) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// isDuplicateErr catches unique-index violations that race past the pre-check.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
