package services

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"github.com/oliverdacre/travel-together/internal/storage"
	"gorm.io/gorm"
)

const maxMessageLength = 1000

type MessageService struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewMessageService(db *gorm.DB, blobs storage.BlobStore) *MessageService {
	return &MessageService{db: db, blobs: blobs}
}

// Post appends a message to the proposal's board. The board accepts
// posts only while the proposal is open or closed-to-new. Attachments
// follow the two-phase sequence: the image row is created first so its
// generated id can be embedded in the storage key, then the bytes are
// persisted under that key and the key saved on the row. Everything
// commits as one unit; a failed blob write rolls the message back.
func (s *MessageService) Post(actorID, proposalID uuid.UUID, content string, attachments [][]byte) (*models.Message, error) {
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, ErrContentTooLong
	}

	var result *models.Message
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if ok, err := isParticipant(tx, proposalID, actorID); err != nil {
			return err
		} else if !ok {
			return ErrUnauthorized
		}
		if !proposal.Status.Negotiable() {
			return ErrNotOpen
		}

		message := models.Message{
			Content:    content,
			Timestamp:  time.Now(),
			AuthorID:   actorID,
			ProposalID: proposalID,
		}
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		for _, data := range attachments {
			image := models.Image{
				MessageID:  message.ID,
				ProposalID: proposalID,
			}
			if err := tx.Create(&image).Error; err != nil {
				return fmt.Errorf("failed to create image record: %w", err)
			}
			// The key embeds the row's own id, which exists only now.
			key := fmt.Sprintf("proposals/%s/messages/%d/images/%d", proposalID, message.ID, image.ID)
			if err := s.blobs.Put(key, data); err != nil {
				return fmt.Errorf("failed to store attachment: %w", err)
			}
			image.StorageKey = key
			if err := tx.Save(&image).Error; err != nil {
				return fmt.Errorf("failed to save image key: %w", err)
			}
			message.Images = append(message.Images, image)
		}

		result = &message
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListSince returns the messages with id greater than the watermark,
// ordered by timestamp ascending with the id as tiebreaker, each with
// its author and attachment keys resolved. This is the polling primitive
// for near-real-time board updates.
func (s *MessageService) ListSince(actorID, proposalID uuid.UUID, afterID uint64) ([]models.Message, error) {
	if _, err := getProposal(s.db, proposalID); err != nil {
		return nil, err
	}
	if ok, err := isParticipant(s.db, proposalID, actorID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUnauthorized
	}

	var messages []models.Message
	err := s.db.Preload("Author").Preload("Images").
		Where("proposal_id = ? AND id > ?", proposalID, afterID).
		Order("timestamp ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
