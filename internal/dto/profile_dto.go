package dto

import "github.com/google/uuid"

type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Gender    *string `json:"gender"`
	Birthdate *string `json:"birthdate"` // YYYY-MM-DD
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Phone     *string `json:"phone"`
}

type ProfileResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Gender        *string   `json:"gender,omitempty"`
	Birthdate     *string   `json:"birthdate,omitempty"`
	AvatarKey     string    `json:"avatar_key,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Location      string    `json:"location,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	AverageRating *float64  `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
}

type AvatarUploadRequest struct {
	Data []byte `json:"data"` // base64 in JSON
}

type AvatarUploadResponse struct {
	AvatarKey string `json:"avatar_key"`
}
