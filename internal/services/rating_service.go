package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"gorm.io/gorm"
)

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// Submit upserts the rater's scores for fellow participants of a
// finished trip. The whole batch validates before any write: one score
// outside [1,5] or one ratee who never participated rejects everything.
// Self-rating entries are silently skipped, and resubmission overwrites
// the previous score.
func (s *RatingService) Submit(raterID, proposalID uuid.UUID, scores map[uuid.UUID]int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if ok, err := isParticipant(tx, proposalID, raterID); err != nil {
			return err
		} else if !ok {
			return ErrNotAParticipant
		}
		if time.Now().Before(proposal.EndDate) {
			return ErrTripNotEnded
		}

		for rateeID, score := range scores {
			if score < 1 || score > 5 {
				return ErrInvalidRating
			}
			if rateeID == raterID {
				continue
			}
			if ok, err := isParticipant(tx, proposalID, rateeID); err != nil {
				return err
			} else if !ok {
				return ErrInvalidRating
			}
		}

		now := time.Now()
		for rateeID, score := range scores {
			if rateeID == raterID {
				continue
			}
			var existing models.UserRating
			err := tx.Where("proposal_id = ? AND rater_id = ? AND ratee_id = ?", proposalID, raterID, rateeID).
				First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				rating := models.UserRating{
					ID:         uuid.New(),
					ProposalID: proposalID,
					RaterID:    raterID,
					RateeID:    rateeID,
					Score:      score,
					RatedAt:    now,
				}
				if err := tx.Create(&rating).Error; err != nil {
					return fmt.Errorf("failed to create rating: %w", err)
				}
			case err != nil:
				return fmt.Errorf("failed to load rating: %w", err)
			default:
				existing.Score = score
				existing.RatedAt = now
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("failed to update rating: %w", err)
				}
			}
		}
		return nil
	})
}

// ListGiven returns the rater's submitted scores for one trip as a
// ratee → score map.
func (s *RatingService) ListGiven(raterID, proposalID uuid.UUID) (map[uuid.UUID]int, error) {
	if _, err := getProposal(s.db, proposalID); err != nil {
		return nil, err
	}
	if ok, err := isParticipant(s.db, proposalID, raterID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotAParticipant
	}

	var ratings []models.UserRating
	err := s.db.Where("proposal_id = ? AND rater_id = ?", proposalID, raterID).
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	out := make(map[uuid.UUID]int, len(ratings))
	for _, r := range ratings {
		out[r.RateeID] = r.Score
	}
	return out, nil
}

// AverageFor computes the arithmetic mean of all scores the user has
// received across trips. Nil when no ratings exist.
func (s *RatingService) AverageFor(userID uuid.UUID) (*float64, int64, error) {
	var count int64
	err := s.db.Model(&models.UserRating{}).
		Where("ratee_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	if count == 0 {
		return nil, 0, nil
	}

	var avg float64
	err = s.db.Model(&models.UserRating{}).
		Where("ratee_id = ?", userID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return &avg, count, nil
}
