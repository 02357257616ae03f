package models

import (
	"time"

	"github.com/google/uuid"
)

// Meetup is a scheduled sub-event of a proposal, visible only to its
// participants. Create-only: meetups are never edited.
type Meetup struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"proposal_id"`
	Location      string       `gorm:"size:200;not null" json:"location"`
	ScheduledTime time.Time    `gorm:"not null" json:"scheduled_time"`
	CreatedAt     time.Time    `json:"created_at"`
	Proposal      TripProposal `gorm:"foreignKey:ProposalID" json:"-"`
}
