package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProposalStatus is one of exactly five wire tokens. Clients must treat
// anything else as an error.
type ProposalStatus string

const (
	StatusOpen        ProposalStatus = "open"
	StatusClosedToNew ProposalStatus = "closed_to_new_participants"
	StatusFinalized   ProposalStatus = "finalized"
	StatusCancelled   ProposalStatus = "cancelled"
	StatusDeleted     ProposalStatus = "deleted"
)

// Negotiable reports whether editors may still change fields and the
// editor set in this status.
func (s ProposalStatus) Negotiable() bool {
	return s == StatusOpen || s == StatusClosedToNew
}

// Terminal statuses accept no further transitions.
func (s ProposalStatus) Terminal() bool {
	return s == StatusFinalized || s == StatusCancelled || s == StatusDeleted
}

// TripProposal is the negotiated entity. Each of the eight plannable
// fields carries its own finalized flag; a set flag blocks writes to that
// field until a reopen clears the whole set. The title is fixed at
// creation.
type TripProposal struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title string    `gorm:"size:100;not null" json:"title"`

	Description      string `gorm:"size:500" json:"description"`
	DescriptionFinal bool   `gorm:"not null;default:false" json:"description_final"`

	Destination      string `gorm:"size:100" json:"destination"`
	DestinationFinal bool   `gorm:"not null;default:false" json:"destination_final"`

	Budget      *float64 `json:"budget"`
	BudgetFinal bool     `gorm:"not null;default:false" json:"budget_final"`

	DepartureLocations      datatypes.JSON `json:"departure_locations"`
	DepartureLocationsFinal bool           `gorm:"not null;default:false" json:"departure_locations_final"`

	Activities      datatypes.JSON `json:"activities"`
	ActivitiesFinal bool           `gorm:"not null;default:false" json:"activities_final"`

	StartDate      time.Time `gorm:"not null" json:"start_date"`
	StartDateFinal bool      `gorm:"not null;default:false" json:"start_date_final"`

	EndDate      time.Time `gorm:"not null" json:"end_date"`
	EndDateFinal bool      `gorm:"not null;default:false" json:"end_date_final"`

	MaxParticipants      int  `gorm:"not null" json:"max_participants"`
	MaxParticipantsFinal bool `gorm:"not null;default:false" json:"max_participants_final"`

	Status    ProposalStatus `gorm:"size:32;not null;default:'open';index" json:"status"`
	CreatorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   User           `gorm:"foreignKey:CreatorID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PlannableField names one of the eight negotiable proposal fields.
type PlannableField string

const (
	FieldDescription        PlannableField = "description"
	FieldDestination        PlannableField = "destination"
	FieldBudget             PlannableField = "budget"
	FieldDepartureLocations PlannableField = "departure_locations"
	FieldActivities         PlannableField = "activities"
	FieldStartDate          PlannableField = "start_date"
	FieldEndDate            PlannableField = "end_date"
	FieldMaxParticipants    PlannableField = "max_participants"
)

// PlannableFields lists every negotiable field, in wire order.
var PlannableFields = []PlannableField{
	FieldDescription,
	FieldDestination,
	FieldBudget,
	FieldDepartureLocations,
	FieldActivities,
	FieldStartDate,
	FieldEndDate,
	FieldMaxParticipants,
}

// ParseField maps a wire name to a PlannableField.
func ParseField(name string) (PlannableField, bool) {
	for _, f := range PlannableFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// FinalFlag returns a pointer to the finalized flag for f, so callers can
// iterate the eight flags generically instead of duplicating per-field
// code paths.
func (p *TripProposal) FinalFlag(f PlannableField) *bool {
	switch f {
	case FieldDescription:
		return &p.DescriptionFinal
	case FieldDestination:
		return &p.DestinationFinal
	case FieldBudget:
		return &p.BudgetFinal
	case FieldDepartureLocations:
		return &p.DepartureLocationsFinal
	case FieldActivities:
		return &p.ActivitiesFinal
	case FieldStartDate:
		return &p.StartDateFinal
	case FieldEndDate:
		return &p.EndDateFinal
	case FieldMaxParticipants:
		return &p.MaxParticipantsFinal
	}
	return nil
}

// SetAllFinal sets or clears every finalized flag in one sweep. Finalize
// sets them all; reopen clears them all.
func (p *TripProposal) SetAllFinal(v bool) {
	for _, f := range PlannableFields {
		*p.FinalFlag(f) = v
	}
}

// FinalFlags returns a snapshot of all eight flags keyed by field name.
func (p *TripProposal) FinalFlags() map[PlannableField]bool {
	flags := make(map[PlannableField]bool, len(PlannableFields))
	for _, f := range PlannableFields {
		flags[f] = *p.FinalFlag(f)
	}
	return flags
}
