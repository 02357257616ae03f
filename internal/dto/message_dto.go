package dto

import "github.com/google/uuid"

type PostMessageRequest struct {
	Content     string   `json:"content"`
	Attachments [][]byte `json:"attachments"` // base64 in JSON
}

// MessageRecord is one board entry as returned by the watermark poll.
type MessageRecord struct {
	ID             uint64    `json:"id"`
	Content        string    `json:"content"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	Timestamp      string    `json:"timestamp"` // ISO-8601
	AttachmentKeys []string  `json:"attachment_keys"`
}

type MessageListResponse struct {
	Messages []MessageRecord `json:"messages"`
}
