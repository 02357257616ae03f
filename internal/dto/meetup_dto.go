package dto

import "github.com/google/uuid"

type CreateMeetupRequest struct {
	Location      string `json:"location"`
	ScheduledTime string `json:"scheduled_time"` // RFC 3339
}

type MeetupResponse struct {
	ID            uuid.UUID `json:"id"`
	Location      string    `json:"location"`
	ScheduledTime string    `json:"scheduled_time"`
}

type MeetupListResponse struct {
	Meetups []MeetupResponse `json:"meetups"`
}
