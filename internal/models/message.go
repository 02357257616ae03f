package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one post on a proposal's board. The auto-increment ID is the
// board's total order and the watermark for incremental polling; ties on
// Timestamp resolve by ID.
type Message struct {
	ID         uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Content    string       `gorm:"size:1000;not null" json:"content"`
	Timestamp  time.Time    `gorm:"not null;index" json:"timestamp"`
	AuthorID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"author_id"`
	ProposalID uuid.UUID    `gorm:"type:uuid;not null;index" json:"proposal_id"`
	Author     User         `gorm:"foreignKey:AuthorID" json:"-"`
	Proposal   TripProposal `gorm:"foreignKey:ProposalID" json:"-"`
	Images     []Image      `gorm:"foreignKey:MessageID" json:"images,omitempty"`
}

// Image is a stored-file reference attached to exactly one message. The
// storage key embeds the row's own ID, so it is assigned only after the
// row exists: create, flush to obtain the ID, derive the key, persist the
// bytes under it, then save the key.
type Image struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID  uint64    `gorm:"not null;index" json:"message_id"`
	ProposalID uuid.UUID `gorm:"type:uuid;not null;index" json:"proposal_id"`
	StorageKey string    `gorm:"size:500" json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}
