package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRating is a directed rater → ratee edge scoped to one finished
// trip. Unique per (proposal, rater, ratee); resubmission overwrites the
// score.
type UserRating struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_trip_rater_ratee" json:"proposal_id"`
	RaterID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_trip_rater_ratee" json:"rater_id"`
	RateeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_trip_rater_ratee;index" json:"ratee_id"`
	Score      int       `gorm:"not null" json:"score"`
	RatedAt    time.Time `gorm:"not null" json:"rated_at"`
}
