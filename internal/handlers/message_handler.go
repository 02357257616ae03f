package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/oliverdacre/travel-together/internal/dto"
	"github.com/oliverdacre/travel-together/internal/models"
	"github.com/oliverdacre/travel-together/internal/services"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Post(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	message, err := h.messageService.Post(actor.ID, proposalID, req.Content, req.Attachments)
	if err != nil {
		return serviceError(c, err)
	}

	record := messageRecord(message)
	record.AuthorName = actor.Name
	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListSince serves the watermark poll: ?after=<id> returns only messages
// newer than the caller's last-seen id.
func (h *MessageHandler) ListSince(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	afterID, _ := strconv.ParseUint(c.Query("after", "0"), 10, 64)

	messages, err := h.messageService.ListSince(actor.ID, proposalID, afterID)
	if err != nil {
		return serviceError(c, err)
	}

	records := make([]dto.MessageRecord, 0, len(messages))
	for i := range messages {
		record := messageRecord(&messages[i])
		record.AuthorName = messages[i].Author.Name
		records = append(records, record)
	}
	return c.JSON(dto.MessageListResponse{Messages: records})
}

func messageRecord(m *models.Message) dto.MessageRecord {
	keys := make([]string, 0, len(m.Images))
	for _, img := range m.Images {
		keys = append(keys, img.StorageKey)
	}
	return dto.MessageRecord{
		ID:             m.ID,
		Content:        m.Content,
		AuthorID:       m.AuthorID,
		Timestamp:      formatTimestamp(m.Timestamp),
		AttachmentKeys: keys,
	}
}
