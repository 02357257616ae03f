package models

import (
	"time"

	"github.com/google/uuid"
)

// TripProposalParticipation links one user to one proposal. While a
// proposal has any participants it must have at least one with
// IsEditor set; the editor view is always derived from these rows,
// never cached.
type TripProposalParticipation struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_participation_user_proposal" json:"user_id"`
	ProposalID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_participation_user_proposal;index" json:"proposal_id"`
	IsEditor   bool         `gorm:"not null;default:false" json:"is_editor"`
	JoinedAt   time.Time    `gorm:"not null" json:"joined_at"`
	User       User         `gorm:"foreignKey:UserID" json:"-"`
	Proposal   TripProposal `gorm:"foreignKey:ProposalID" json:"-"`
}
