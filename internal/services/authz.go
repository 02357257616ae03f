package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"gorm.io/gorm/clause"
	"gorm.io/gorm"
)

// isParticipant and isEditor are pure lookups against current
// participation rows. The creator always holds an editor participation
// row from creation time, so no component special-cases "creator".

func isParticipant(tx *gorm.DB, proposalID, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.TripProposalParticipation{}).
		Where("proposal_id = ? AND user_id = ?", proposalID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	return count > 0, nil
}

func isEditor(tx *gorm.DB, proposalID, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.TripProposalParticipation{}).
		Where("proposal_id = ? AND user_id = ? AND is_editor = ?", proposalID, userID, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check editor role: %w", err)
	}
	return count > 0, nil
}

func editorCount(tx *gorm.DB, proposalID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&models.TripProposalParticipation{}).
		Where("proposal_id = ? AND is_editor = ?", proposalID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count editors: %w", err)
	}
	return count, nil
}

func participantCount(tx *gorm.DB, proposalID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&models.TripProposalParticipation{}).
		Where("proposal_id = ?", proposalID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

// lockProposal loads the proposal row with a per-row write lock, so every
// composite transition on one proposal serializes while operations on
// different proposals never contend. Dialects without FOR UPDATE (the
// in-memory test database) fall back to a plain read; the test harness
// serializes on a single connection instead. A deleted proposal is
// reported as absent.
func lockProposal(tx *gorm.DB, proposalID uuid.UUID) (*models.TripProposal, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var proposal models.TripProposal
	if err := query.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load proposal: %w", err)
	}
	if proposal.Status == models.StatusDeleted {
		return nil, ErrNotFound
	}
	return &proposal, nil
}

// getProposal is the read-only variant of lockProposal.
func getProposal(tx *gorm.DB, proposalID uuid.UUID) (*models.TripProposal, error) {
	var proposal models.TripProposal
	if err := tx.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load proposal: %w", err)
	}
	if proposal.Status == models.StatusDeleted {
		return nil, ErrNotFound
	}
	return &proposal, nil
}
