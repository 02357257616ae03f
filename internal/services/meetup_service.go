package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"gorm.io/gorm"
)

type MeetupService struct {
	db *gorm.DB
}

func NewMeetupService(db *gorm.DB) *MeetupService {
	return &MeetupService{db: db}
}

// Create schedules a sub-event of the proposal. Editor-only; meetups are
// never edited afterwards.
func (s *MeetupService) Create(actorID, proposalID uuid.UUID, location string, scheduledTime time.Time) (*models.Meetup, error) {
	location = strings.TrimSpace(location)
	if location == "" || len(location) > 200 {
		return nil, ErrInvalidField
	}

	var result *models.Meetup
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockProposal(tx, proposalID); err != nil {
			return err
		}
		if ok, err := isEditor(tx, proposalID, actorID); err != nil {
			return err
		} else if !ok {
			return ErrUnauthorized
		}

		meetup := models.Meetup{
			ID:            uuid.New(),
			ProposalID:    proposalID,
			Location:      location,
			ScheduledTime: scheduledTime,
		}
		if err := tx.Create(&meetup).Error; err != nil {
			return fmt.Errorf("failed to create meetup: %w", err)
		}
		result = &meetup
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns the proposal's meetups, participants only.
func (s *MeetupService) List(actorID, proposalID uuid.UUID) ([]models.Meetup, error) {
	if _, err := getProposal(s.db, proposalID); err != nil {
		return nil, err
	}
	if ok, err := isParticipant(s.db, proposalID, actorID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUnauthorized
	}

	var meetups []models.Meetup
	err := s.db.Where("proposal_id = ?", proposalID).
		Order("scheduled_time ASC").
		Find(&meetups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetups: %w", err)
	}
	return meetups, nil
}
