package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"github.com/oliverdacre/travel-together/internal/storage"
	"gorm.io/gorm"
)

type ProfileService struct {
	db     *gorm.DB
	blobs  storage.BlobStore
	rating *RatingService
}

func NewProfileService(db *gorm.DB, blobs storage.BlobStore, rating *RatingService) *ProfileService {
	return &ProfileService{db: db, blobs: blobs, rating: rating}
}

// Profile is a user plus their received-rating aggregate.
type Profile struct {
	User          models.User
	AverageRating *float64
	RatingCount   int64
}

func (s *ProfileService) Get(userID uuid.UUID) (*Profile, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	avg, count, err := s.rating.AverageFor(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, AverageRating: avg, RatingCount: count}, nil
}

// ProfileUpdate carries already-coerced optional profile attributes.
type ProfileUpdate struct {
	Name      *string
	Gender    *string
	Birthdate *time.Time
	Bio       *string
	Location  *string
	Phone     *string
}

// Update mutates the actor's own profile. Each attribute validates
// against its length limit; failures leave the row unchanged.
func (s *ProfileService) Update(userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" || len(name) > 50 {
			return nil, ErrInvalidField
		}
		user.Name = name
	}
	if update.Gender != nil {
		if len(*update.Gender) > 20 {
			return nil, ErrInvalidField
		}
		user.Gender = update.Gender
	}
	if update.Birthdate != nil {
		user.Birthdate = update.Birthdate
	}
	if update.Bio != nil {
		if len(*update.Bio) > 500 {
			return nil, ErrInvalidField
		}
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		if len(*update.Location) > 100 {
			return nil, ErrInvalidField
		}
		user.Location = *update.Location
	}
	if update.Phone != nil {
		if len(*update.Phone) > 20 {
			return nil, ErrInvalidField
		}
		user.Phone = *update.Phone
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return &user, nil
}

// SetAvatar stores the avatar bytes and records the key on the user.
func (s *ProfileService) SetAvatar(userID uuid.UUID, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrInvalidField
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	key := fmt.Sprintf("avatars/%s", userID)
	if err := s.blobs.Put(key, data); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.db.Model(&user).Update("avatar_key", key).Error; err != nil {
		return "", fmt.Errorf("failed to save avatar key: %w", err)
	}
	return key, nil
}
