package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProposalService struct {
	db *gorm.DB
}

func NewProposalService(db *gorm.DB) *ProposalService {
	return &ProposalService{db: db}
}

// CreateProposalInput carries already-coerced values; string parsing
// happens at the transport layer.
type CreateProposalInput struct {
	Title              string
	Description        string
	Destination        string
	Budget             *float64
	DepartureLocations []string
	Activities         []string
	StartDate          time.Time
	EndDate            time.Time
	MaxParticipants    int
}

// FieldValues carries draft values for any subset of the eight plannable
// fields. Nil pointers mean "not touched".
type FieldValues struct {
	Description        *string
	Destination        *string
	Budget             *float64
	DepartureLocations *[]string
	Activities         *[]string
	StartDate          *time.Time
	EndDate            *time.Time
	MaxParticipants    *int
}

// Create opens a new proposal and auto-joins the creator as editor in the
// same commit, so the editor invariant holds from the first observable
// state.
func (s *ProposalService) Create(creatorID uuid.UUID, in CreateProposalInput) (*models.TripProposal, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Destination = strings.TrimSpace(in.Destination)
	if in.Title == "" || len(in.Title) > 100 {
		return nil, ErrInvalidField
	}
	if in.Destination == "" || len(in.Destination) > 100 {
		return nil, ErrInvalidField
	}
	if len(in.Description) > 500 {
		return nil, ErrInvalidField
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidField
	}
	if in.MaxParticipants < 1 {
		return nil, ErrInvalidField
	}
	if in.Budget != nil && *in.Budget < 0 {
		return nil, ErrInvalidField
	}

	departures, err := stringsToJSON(in.DepartureLocations)
	if err != nil {
		return nil, err
	}
	activities, err := stringsToJSON(in.Activities)
	if err != nil {
		return nil, err
	}

	proposal := models.TripProposal{
		ID:                 uuid.New(),
		Title:              in.Title,
		Description:        in.Description,
		Destination:        in.Destination,
		Budget:             in.Budget,
		DepartureLocations: departures,
		Activities:         activities,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		MaxParticipants:    in.MaxParticipants,
		Status:             models.StatusOpen,
		CreatorID:          creatorID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&proposal).Error; err != nil {
			return fmt.Errorf("failed to create proposal: %w", err)
		}
		participation := models.TripProposalParticipation{
			ID:         uuid.New(),
			UserID:     creatorID,
			ProposalID: proposal.ID,
			IsEditor:   true,
			JoinedAt:   time.Now(),
		}
		if err := tx.Create(&participation).Error; err != nil {
			return fmt.Errorf("failed to create creator participation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ProposalWithCount pairs a proposal with its current participant count
// for listings.
type ProposalWithCount struct {
	models.TripProposal
	ParticipantCount int
}

// List returns all non-deleted proposals, newest first.
func (s *ProposalService) List() ([]ProposalWithCount, int64, error) {
	var proposals []models.TripProposal
	err := s.db.Where("status <> ?", models.StatusDeleted).
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list proposals: %w", err)
	}

	out := make([]ProposalWithCount, 0, len(proposals))
	for i := range proposals {
		count, err := participantCount(s.db, proposals[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ProposalWithCount{TripProposal: proposals[i], ParticipantCount: int(count)})
	}
	return out, int64(len(out)), nil
}

// ProposalDetail is the engine-level view of one proposal. Participants
// and meetups are filled only when the viewer participates.
type ProposalDetail struct {
	Proposal      models.TripProposal
	Participants  []models.TripProposalParticipation
	Meetups       []models.Meetup
	IsParticipant bool
	IsEditor      bool
}

func (s *ProposalService) Get(viewerID, proposalID uuid.UUID) (*ProposalDetail, error) {
	proposal, err := getProposal(s.db, proposalID)
	if err != nil {
		return nil, err
	}

	detail := ProposalDetail{Proposal: *proposal}
	detail.IsParticipant, err = isParticipant(s.db, proposalID, viewerID)
	if err != nil {
		return nil, err
	}
	detail.IsEditor, err = isEditor(s.db, proposalID, viewerID)
	if err != nil {
		return nil, err
	}

	if detail.IsParticipant {
		err = s.db.Preload("User").
			Where("proposal_id = ?", proposalID).
			Order("joined_at ASC").
			Find(&detail.Participants).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load participants: %w", err)
		}
		err = s.db.Where("proposal_id = ?", proposalID).
			Order("scheduled_time ASC").
			Find(&detail.Meetups).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load meetups: %w", err)
		}
	}
	return &detail, nil
}

// ProposeFields overwrites the draft value of every touched field in one
// commit. A finalized field rejects the whole batch with ErrFieldLocked;
// validation failures leave state unchanged. The date-order invariant is
// checked against the effective values, so an incoming date validates
// against a finalized counterpart.
func (s *ProposalService) ProposeFields(actorID, proposalID uuid.UUID, values FieldValues) (*models.TripProposal, error) {
	var result *models.TripProposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if ok, err := isEditor(tx, proposalID, actorID); err != nil {
			return err
		} else if !ok {
			return ErrUnauthorized
		}
		if !proposal.Status.Negotiable() {
			return ErrTerminalTrip
		}

		if err := applyFieldValues(tx, proposal, values); err != nil {
			return err
		}

		if err := tx.Save(proposal).Error; err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}
		result = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyFieldValues mutates the in-memory proposal from the touched
// fields, enforcing per-field locks and value validation.
func applyFieldValues(tx *gorm.DB, proposal *models.TripProposal, values FieldValues) error {
	touched := func(f models.PlannableField, set bool) error {
		if !set {
			return nil
		}
		if *proposal.FinalFlag(f) {
			return ErrFieldLocked
		}
		return nil
	}

	checks := []struct {
		field models.PlannableField
		set   bool
	}{
		{models.FieldDescription, values.Description != nil},
		{models.FieldDestination, values.Destination != nil},
		{models.FieldBudget, values.Budget != nil},
		{models.FieldDepartureLocations, values.DepartureLocations != nil},
		{models.FieldActivities, values.Activities != nil},
		{models.FieldStartDate, values.StartDate != nil},
		{models.FieldEndDate, values.EndDate != nil},
		{models.FieldMaxParticipants, values.MaxParticipants != nil},
	}
	for _, c := range checks {
		if err := touched(c.field, c.set); err != nil {
			return err
		}
	}

	if values.Description != nil {
		if len(*values.Description) > 500 {
			return ErrInvalidField
		}
		proposal.Description = *values.Description
	}
	if values.Destination != nil {
		v := strings.TrimSpace(*values.Destination)
		if v == "" || len(v) > 100 {
			return ErrInvalidField
		}
		proposal.Destination = v
	}
	if values.Budget != nil {
		if *values.Budget < 0 {
			return ErrInvalidField
		}
		b := *values.Budget
		proposal.Budget = &b
	}
	if values.DepartureLocations != nil {
		j, err := stringsToJSON(*values.DepartureLocations)
		if err != nil {
			return err
		}
		proposal.DepartureLocations = j
	}
	if values.Activities != nil {
		j, err := stringsToJSON(*values.Activities)
		if err != nil {
			return err
		}
		proposal.Activities = j
	}
	if values.StartDate != nil {
		proposal.StartDate = *values.StartDate
	}
	if values.EndDate != nil {
		proposal.EndDate = *values.EndDate
	}
	if values.StartDate != nil || values.EndDate != nil {
		if proposal.EndDate.Before(proposal.StartDate) {
			return ErrInvalidField
		}
	}
	if values.MaxParticipants != nil {
		if *values.MaxParticipants < 1 {
			return ErrInvalidField
		}
		count, err := participantCount(tx, proposal.ID)
		if err != nil {
			return err
		}
		if int64(*values.MaxParticipants) < count {
			return ErrCapacityBelowOccupancy
		}
		proposal.MaxParticipants = *values.MaxParticipants
	}
	return nil
}

// MarkFinal sets the finalized flag on the named fields in one commit.
// Finalization is a one-way ratchet per editing round; only a reopen
// clears it.
func (s *ProposalService) MarkFinal(actorID, proposalID uuid.UUID, fields []string) (*models.TripProposal, error) {
	parsed := make([]models.PlannableField, 0, len(fields))
	for _, name := range fields {
		f, ok := models.ParseField(name)
		if !ok {
			return nil, ErrInvalidField
		}
		parsed = append(parsed, f)
	}
	if len(parsed) == 0 {
		return nil, ErrInvalidField
	}

	var result *models.TripProposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if ok, err := isEditor(tx, proposalID, actorID); err != nil {
			return err
		} else if !ok {
			return ErrUnauthorized
		}
		if !proposal.Status.Negotiable() {
			return ErrTerminalTrip
		}

		for _, f := range parsed {
			*proposal.FinalFlag(f) = true
		}
		if err := tx.Save(proposal).Error; err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}
		result = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChangeStatus applies an explicit editor-driven transition: close,
// reopen, finalize, or cancel. Finalize locks every field and is
// irreversible; reopen starts a full renegotiation round by clearing
// every finalized flag.
func (s *ProposalService) ChangeStatus(actorID, proposalID uuid.UUID, action string) (*models.TripProposal, error) {
	var result *models.TripProposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposal, err := lockProposal(tx, proposalID)
		if err != nil {
			return err
		}
		if ok, err := isEditor(tx, proposalID, actorID); err != nil {
			return err
		} else if !ok {
			return ErrUnauthorized
		}

		switch action {
		case "close":
			if proposal.Status.Terminal() {
				return ErrTerminalTrip
			}
			if proposal.Status != models.StatusOpen {
				return ErrNotOpen
			}
			proposal.Status = models.StatusClosedToNew
		case "reopen":
			if proposal.Status.Terminal() {
				return ErrTerminalTrip
			}
			if proposal.Status != models.StatusClosedToNew {
				return ErrNotOpen
			}
			proposal.Status = models.StatusOpen
			proposal.SetAllFinal(false)
		case "finalize":
			if !proposal.Status.Negotiable() {
				return ErrTerminalTrip
			}
			proposal.Status = models.StatusFinalized
			proposal.SetAllFinal(true)
		case "cancel":
			if proposal.Status.Terminal() {
				return ErrTerminalTrip
			}
			proposal.Status = models.StatusCancelled
		default:
			return ErrInvalidTransition
		}

		if err := tx.Save(proposal).Error; err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}
		result = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func stringsToJSON(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return datatypes.JSON(b), nil
}

// JSONToStrings decodes a JSON string array column; a null or empty
// column yields an empty slice.
func JSONToStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return []string{}
	}
	return out
}

// IsParticipant reports whether the user currently participates in the
// proposal.
func (s *ProposalService) IsParticipant(proposalID, userID uuid.UUID) (bool, error) {
	if _, err := getProposal(s.db, proposalID); err != nil {
		return false, err
	}
	return isParticipant(s.db, proposalID, userID)
}

// IsEditor reports whether the user is currently an editor of the
// proposal.
func (s *ProposalService) IsEditor(proposalID, userID uuid.UUID) (bool, error) {
	if _, err := getProposal(s.db, proposalID); err != nil {
		return false, err
	}
	return isEditor(s.db, proposalID, userID)
}
