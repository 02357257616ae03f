package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"gorm.io/gorm"
)

// AutoTransition names a status change triggered as a side effect of a
// join or leave rather than by a direct editor action. Operations report
// it explicitly so callers can assert on it instead of re-querying.
type AutoTransition string

const (
	AutoNone   AutoTransition = ""
	AutoClose  AutoTransition = "auto_close"
	AutoReopen AutoTransition = "auto_reopen"
	AutoDelete AutoTransition = "auto_delete"
)

type ParticipationService struct {
	db *gorm.DB
}

func NewParticipationService(db *gorm.DB) *ParticipationService {
	return &ParticipationService{db: db}
}

// Join adds the actor as a non-editor participant. The capacity check,
// the insert, and a possible auto-close commit as one unit under the
// proposal row lock, so concurrent joins against the last slot cannot
// both succeed. If a join finds the proposal already over capacity
// (a prior race), the auto-close is forced and committed even though the
// join itself fails.
func (s *ParticipationService) Join(actorID, proposalID uuid.UUID) (models.ProposalStatus, AutoTransition, error) {
	var (
		status  models.ProposalStatus
		auto    AutoTransition
		joinErr error
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		status = proposal.Status

		if proposal.Status != models.StatusOpen {
			return ErrNotOpen
		}
		if ok, err := isParticipant(tx, proposalID, actorID); err != nil {
			return err
		} else if ok {
			return ErrAlreadyJoined
		}

		count, err := participantCount(tx, proposalID)
		if err != nil {
			return err
		}
		if count >= int64(proposal.MaxParticipants) {
			// Capacity was overshot by an earlier race; close the
			// proposal now and report the join as failed. The close
			// must commit, so the failure travels outside the
			// transaction error path.
			proposal.Status = models.StatusClosedToNew
			if err := tx.Save(proposal).Error; err != nil {
				return fmt.Errorf("failed to auto-close proposal: %w", err)
			}
			status = proposal.Status
			auto = AutoClose
			joinErr = ErrFull
			return nil
		}

		participation := models.TripProposalParticipation{
			ID:         uuid.New(),
			UserID:     actorID,
			ProposalID: proposalID,
			IsEditor:   false,
			JoinedAt:   time.Now(),
		}
		if err := tx.Create(&participation).Error; err != nil {
			return fmt.Errorf("failed to create participation: %w", err)
		}

		if count+1 >= int64(proposal.MaxParticipants) {
			proposal.Status = models.StatusClosedToNew
			if err := tx.Save(proposal).Error; err != nil {
				return fmt.Errorf("failed to auto-close proposal: %w", err)
			}
			auto = AutoClose
		}
		status = proposal.Status
		return nil
	})
	if err != nil {
		return status, AutoNone, err
	}
	return status, auto, joinErr
}

// Leave removes the actor's participation. Membership and editor checks
// run before any capacity side effect: a finalized trip locks membership
// entirely, and the sole editor cannot abandon remaining participants.
// The last participant leaving deletes the proposal; a leave that drops a
// closed proposal below capacity reopens it.
func (s *ParticipationService) Leave(actorID, proposalID uuid.UUID) (models.ProposalStatus, AutoTransition, error) {
	var (
		status models.ProposalStatus
		auto   AutoTransition
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		status = proposal.Status

		var participation models.TripProposalParticipation
		err = tx.Where("proposal_id = ? AND user_id = ?", proposalID, actorID).
			First(&participation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAParticipant
		} else if err != nil {
			return fmt.Errorf("failed to load participation: %w", err)
		}

		if proposal.Status == models.StatusFinalized {
			return ErrTerminalTrip
		}

		count, err := participantCount(tx, proposalID)
		if err != nil {
			return err
		}
		if participation.IsEditor && proposal.Status.Negotiable() && count > 1 {
			editors, err := editorCount(tx, proposalID)
			if err != nil {
				return err
			}
			if editors <= 1 {
				return ErrSoleEditor
			}
		}

		if err := tx.Delete(&participation).Error; err != nil {
			return fmt.Errorf("failed to delete participation: %w", err)
		}

		remaining := count - 1
		switch {
		case remaining == 0:
			proposal.Status = models.StatusDeleted
			auto = AutoDelete
		case proposal.Status == models.StatusClosedToNew && remaining < int64(proposal.MaxParticipants):
			proposal.Status = models.StatusOpen
			auto = AutoReopen
		}
		if auto != AutoNone {
			if err := tx.Save(proposal).Error; err != nil {
				return fmt.Errorf("failed to update proposal status: %w", err)
			}
		}
		status = proposal.Status
		return nil
	})
	if err != nil {
		return status, AutoNone, err
	}
	return status, auto, nil
}

// AddEditor grants editor rights to an existing participant. Permitted
// only while the proposal is still negotiable.
func (s *ParticipationService) AddEditor(grantorID, proposalID, targetID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if ok, err := isEditor(tx, proposalID, grantorID); err != nil {
			return err
		} else if !ok {
			return ErrUnauthorized
		}
		if !proposal.Status.Negotiable() {
			return ErrTerminalTrip
		}

		var participation models.TripProposalParticipation
		err = tx.Where("proposal_id = ? AND user_id = ?", proposalID, targetID).
			First(&participation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAParticipant
		} else if err != nil {
			return fmt.Errorf("failed to load participation: %w", err)
		}

		if participation.IsEditor {
			return nil
		}
		participation.IsEditor = true
		if err := tx.Save(&participation).Error; err != nil {
			return fmt.Errorf("failed to grant editor role: %w", err)
		}
		return nil
	})
}

// RemoveEditor demotes a participant from the editor set. The last
// editor can never be demoted while the proposal still has participants;
// editorship must be reassigned first.
func (s *ParticipationService) RemoveEditor(grantorID, proposalID, targetID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if ok, err := isEditor(tx, proposalID, grantorID); err != nil {
			return err
		} else if !ok {
			return ErrUnauthorized
		}
		if !proposal.Status.Negotiable() {
			return ErrTerminalTrip
		}

		var participation models.TripProposalParticipation
		err = tx.Where("proposal_id = ? AND user_id = ?", proposalID, targetID).
			First(&participation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAParticipant
		} else if err != nil {
			return fmt.Errorf("failed to load participation: %w", err)
		}

		if !participation.IsEditor {
			return nil
		}
		editors, err := editorCount(tx, proposalID)
		if err != nil {
			return err
		}
		if editors <= 1 {
			return ErrSoleEditor
		}

		participation.IsEditor = false
		if err := tx.Save(&participation).Error; err != nil {
			return fmt.Errorf("failed to revoke editor role: %w", err)
		}
		return nil
	})
}
