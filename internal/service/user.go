package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// UserService manages profile data other than credentials.
type UserService struct {
	db     *gorm.DB
	images ImageStore
}

func NewUserService(db *gorm.DB, images ImageStore) *UserService {
	return &UserService{db: db, images: images}
}

// SetAvatar stores the image and points the user's avatar at it.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (string, error) {
	if dataURI == "" {
		verr := &ValidationError{}
		verr.Add("avatar", "This field is required.")
		return "", verr
	}
	if err := s.exists(ctx, userID); err != nil {
		return "", err
	}

	url, err := s.images.Save(ctx, "users", dataURI)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar", url).Error; err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Avatar == "" {
		return ErrNoAvatar
	}
	return s.db.WithContext(ctx).Model(&user).Update("avatar", "").Error
}

func (s *UserService) exists(ctx context.Context, userID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
