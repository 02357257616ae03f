package dto

import "github.com/google/uuid"

type CreateProposalRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Destination        string   `json:"destination"`
	Budget             *float64 `json:"budget"`
	DepartureLocations []string `json:"departure_locations"`
	Activities         []string `json:"activities"`
	StartDate          string   `json:"start_date"` // YYYY-MM-DD
	EndDate            string   `json:"end_date"`   // YYYY-MM-DD
	MaxParticipants    int      `json:"max_participants"`
}

// PatchFieldsRequest carries draft values for any subset of the eight
// plannable fields. Nil means "not touched".
type PatchFieldsRequest struct {
	Description        *string   `json:"description"`
	Destination        *string   `json:"destination"`
	Budget             *float64  `json:"budget"`
	DepartureLocations *[]string `json:"departure_locations"`
	Activities         *[]string `json:"activities"`
	StartDate          *string   `json:"start_date"` // YYYY-MM-DD
	EndDate            *string   `json:"end_date"`   // YYYY-MM-DD
	MaxParticipants    *int      `json:"max_participants"`
}

type FinalizeFieldsRequest struct {
	Fields []string `json:"fields"`
}

// StatusChangeRequest carries one of: close, reopen, finalize, cancel.
type StatusChangeRequest struct {
	Action string `json:"action"`
}

type GrantEditorRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type FieldState struct {
	Value     interface{} `json:"value"`
	Finalized bool        `json:"finalized"`
}

type ParticipantView struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	IsEditor bool      `json:"is_editor"`
	JoinedAt string    `json:"joined_at"`
}

type ProposalSummary struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Destination      string    `json:"destination"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	Status           string    `json:"status"`
	MaxParticipants  int       `json:"max_participants"`
	ParticipantCount int       `json:"participant_count"`
	CreatorID        uuid.UUID `json:"creator_id"`
	CreatedAt        string    `json:"created_at"`
}

type ProposalListResponse struct {
	Proposals []ProposalSummary `json:"proposals"`
	Total     int64             `json:"total"`
}

type ProposalDetailResponse struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Status        string                `json:"status"`
	Fields        map[string]FieldState `json:"fields"`
	CreatorID     uuid.UUID             `json:"creator_id"`
	CreatedAt     string                `json:"created_at"`
	Participants  []ParticipantView     `json:"participants,omitempty"`
	Meetups       []MeetupResponse      `json:"meetups,omitempty"`
	IsParticipant bool                  `json:"is_participant"`
	IsEditor      bool                  `json:"is_editor"`
}

// MembershipChangeResponse reports the proposal status after a join or
// leave, plus which auto-transition (if any) the operation triggered, so
// callers can assert on it instead of re-querying.
type MembershipChangeResponse struct {
	Status         string `json:"status"`
	AutoTransition string `json:"auto_transition,omitempty"`
}
