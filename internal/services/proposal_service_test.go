package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
)

func TestCreateProposalValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")

	negative := -10.0
	cases := []struct {
		name   string
		mutate func(*CreateProposalInput)
	}{
		{"empty title", func(in *CreateProposalInput) { in.Title = "   " }},
		{"title too long", func(in *CreateProposalInput) { in.Title = strings.Repeat("x", 101) }},
		{"empty destination", func(in *CreateProposalInput) { in.Destination = "" }},
		{"description too long", func(in *CreateProposalInput) { in.Description = strings.Repeat("x", 501) }},
		{"end before start", func(in *CreateProposalInput) { in.EndDate = in.StartDate.AddDate(0, 0, -1) }},
		{"zero capacity", func(in *CreateProposalInput) { in.MaxParticipants = 0 }},
		{"negative budget", func(in *CreateProposalInput) { in.Budget = &negative }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseProposalInput()
			tc.mutate(&in)
			if _, err := svc.Create(creator.ID, in); !errors.Is(err, ErrInvalidField) {
				t.Fatalf("expected ErrInvalidField, got %v", err)
			}
		})
	}
}

func TestCreateProposalAutoJoinsCreatorAsEditor(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if proposal.Status != models.StatusOpen {
		t.Fatalf("expected open status, got %q", proposal.Status)
	}
	ok, err := isEditor(db, proposal.ID, creator.ID)
	if err != nil {
		t.Fatalf("editor check: %v", err)
	}
	if !ok {
		t.Fatal("creator should be an editor from creation")
	}
	for field, final := range proposal.FinalFlags() {
		if final {
			t.Fatalf("field %s should start unfinalized", field)
		}
	}
}

func TestProposeFieldsUpdatesValues(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	dest := "Porto"
	budget := 850.0
	activities := []string{"surfing", "wine tasting"}
	updated, err := svc.ProposeFields(creator.ID, proposal.ID, FieldValues{
		Destination: &dest,
		Budget:      &budget,
		Activities:  &activities,
	})
	if err != nil {
		t.Fatalf("propose fields: %v", err)
	}
	if updated.Destination != "Porto" {
		t.Fatalf("expected destination Porto, got %q", updated.Destination)
	}
	if updated.Budget == nil || *updated.Budget != 850.0 {
		t.Fatalf("expected budget 850, got %v", updated.Budget)
	}
	if got := JSONToStrings(updated.Activities); len(got) != 2 || got[0] != "surfing" {
		t.Fatalf("unexpected activities %v", got)
	}
}

func TestProposeFieldsRequiresEditor(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	outsider := createUser(t, db, "carol")
	proposal := createProposal(t, db, creator.ID, nil)
	joinProposal(t, db, member.ID, proposal.ID)

	dest := "Porto"
	for _, actor := range []*models.User{member, outsider} {
		if _, err := svc.ProposeFields(actor.ID, proposal.ID, FieldValues{Destination: &dest}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %s, got %v", actor.Name, err)
		}
	}
}

func TestProposeFieldsFinalizedFieldRejectsBatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if _, err := svc.MarkFinal(creator.ID, proposal.ID, []string{"destination"}); err != nil {
		t.Fatalf("mark final: %v", err)
	}

	dest := "Porto"
	budget := 500.0
	_, err := svc.ProposeFields(creator.ID, proposal.ID, FieldValues{
		Destination: &dest,
		Budget:      &budget,
	})
	if !errors.Is(err, ErrFieldLocked) {
		t.Fatalf("expected ErrFieldLocked, got %v", err)
	}

	// The whole batch must be rejected: the untouched budget survives.
	reloaded := reloadProposal(t, db, proposal.ID)
	if reloaded.Budget != nil {
		t.Fatalf("budget should be unchanged, got %v", *reloaded.Budget)
	}
	if reloaded.Destination != "Lisbon" {
		t.Fatalf("destination should be unchanged, got %q", reloaded.Destination)
	}
}

func TestProposeFieldsDateAgainstFinalizedCounterpart(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if _, err := svc.MarkFinal(creator.ID, proposal.ID, []string{"end_date"}); err != nil {
		t.Fatalf("mark final: %v", err)
	}

	// A start after the locked end must fail against the effective pair.
	badStart := proposal.EndDate.AddDate(0, 0, 1)
	if _, err := svc.ProposeFields(creator.ID, proposal.ID, FieldValues{StartDate: &badStart}); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}

	goodStart := proposal.EndDate.AddDate(0, 0, -2)
	if _, err := svc.ProposeFields(creator.ID, proposal.ID, FieldValues{StartDate: &goodStart}); err != nil {
		t.Fatalf("valid start date rejected: %v", err)
	}
}

func TestProposeFieldsCapacityBelowOccupancy(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)
	joinProposal(t, db, createUser(t, db, "bob").ID, proposal.ID)
	joinProposal(t, db, createUser(t, db, "carol").ID, proposal.ID)

	two := 2
	if _, err := svc.ProposeFields(creator.ID, proposal.ID, FieldValues{MaxParticipants: &two}); !errors.Is(err, ErrCapacityBelowOccupancy) {
		t.Fatalf("expected ErrCapacityBelowOccupancy, got %v", err)
	}

	three := 3
	if _, err := svc.ProposeFields(creator.ID, proposal.ID, FieldValues{MaxParticipants: &three}); err != nil {
		t.Fatalf("capacity equal to occupancy rejected: %v", err)
	}
}

func TestMarkFinalValidatesFieldNames(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if _, err := svc.MarkFinal(creator.ID, proposal.ID, []string{"destination", "title"}); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField for unknown field, got %v", err)
	}
	if _, err := svc.MarkFinal(creator.ID, proposal.ID, nil); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField for empty list, got %v", err)
	}

	// Nothing was flagged by the rejected batches.
	for field, final := range reloadProposal(t, db, proposal.ID).FinalFlags() {
		if final {
			t.Fatalf("field %s unexpectedly finalized", field)
		}
	}
}

func TestMarkFinalSetsFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	updated, err := svc.MarkFinal(creator.ID, proposal.ID, []string{"destination", "start_date", "end_date"})
	if err != nil {
		t.Fatalf("mark final: %v", err)
	}
	if !updated.DestinationFinal || !updated.StartDateFinal || !updated.EndDateFinal {
		t.Fatal("named fields should be finalized")
	}
	if updated.BudgetFinal {
		t.Fatal("unnamed field should stay unfinalized")
	}
}

func TestChangeStatusCloseAndReopen(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if _, err := svc.MarkFinal(creator.ID, proposal.ID, []string{"destination", "budget"}); err != nil {
		t.Fatalf("mark final: %v", err)
	}

	closed, err := svc.ChangeStatus(creator.ID, proposal.ID, "close")
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != models.StatusClosedToNew {
		t.Fatalf("expected closed_to_new_participants, got %q", closed.Status)
	}
	if _, err := svc.ChangeStatus(creator.ID, proposal.ID, "close"); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen for double close, got %v", err)
	}

	reopened, err := svc.ChangeStatus(creator.ID, proposal.ID, "reopen")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != models.StatusOpen {
		t.Fatalf("expected open, got %q", reopened.Status)
	}
	for field, final := range reopened.FinalFlags() {
		if final {
			t.Fatalf("reopen should clear flag on %s", field)
		}
	}
}

func TestChangeStatusFinalizeIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	finalized, err := svc.ChangeStatus(creator.ID, proposal.ID, "finalize")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if finalized.Status != models.StatusFinalized {
		t.Fatalf("expected finalized, got %q", finalized.Status)
	}
	for field, final := range finalized.FinalFlags() {
		if !final {
			t.Fatalf("finalize should lock %s", field)
		}
	}

	dest := "Porto"
	if _, err := svc.ProposeFields(creator.ID, proposal.ID, FieldValues{Destination: &dest}); !errors.Is(err, ErrTerminalTrip) {
		t.Fatalf("expected ErrTerminalTrip for edit after finalize, got %v", err)
	}
	for _, action := range []string{"close", "reopen", "finalize", "cancel"} {
		if _, err := svc.ChangeStatus(creator.ID, proposal.ID, action); !errors.Is(err, ErrTerminalTrip) {
			t.Fatalf("expected ErrTerminalTrip for %s after finalize, got %v", action, err)
		}
	}
}

func TestChangeStatusCancel(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if _, err := svc.ChangeStatus(creator.ID, proposal.ID, "close"); err != nil {
		t.Fatalf("close: %v", err)
	}
	cancelled, err := svc.ChangeStatus(creator.ID, proposal.ID, "cancel")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %q", cancelled.Status)
	}
}

func TestChangeStatusUnknownAction(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if _, err := svc.ChangeStatus(creator.ID, proposal.ID, "archive"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestChangeStatusRequiresEditor(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	proposal := createProposal(t, db, creator.ID, nil)
	joinProposal(t, db, member.ID, proposal.ID)

	if _, err := svc.ChangeStatus(member.ID, proposal.ID, "close"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestListSkipsDeletedProposals(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	kept := createProposal(t, db, creator.ID, nil)
	gone := createProposal(t, db, creator.ID, func(in *CreateProposalInput) { in.Title = "Abandoned plan" })

	// The creator leaving as last participant soft-deletes the proposal.
	if _, _, err := NewParticipationService(db).Leave(creator.ID, gone.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}

	listed, total, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(listed) != 1 {
		t.Fatalf("expected 1 proposal, got %d", total)
	}
	if listed[0].ID != kept.ID {
		t.Fatalf("expected proposal %s, got %s", kept.ID, listed[0].ID)
	}
	if listed[0].ParticipantCount != 1 {
		t.Fatalf("expected participant count 1, got %d", listed[0].ParticipantCount)
	}
}

func TestGetHidesParticipantsFromOutsiders(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	outsider := createUser(t, db, "bob")
	proposal := createProposal(t, db, creator.ID, nil)

	detail, err := svc.Get(outsider.ID, proposal.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.IsParticipant || detail.IsEditor {
		t.Fatal("outsider should hold no role")
	}
	if len(detail.Participants) != 0 {
		t.Fatalf("participant list should be hidden, got %d entries", len(detail.Participants))
	}

	asCreator, err := svc.Get(creator.ID, proposal.ID)
	if err != nil {
		t.Fatalf("get as creator: %v", err)
	}
	if !asCreator.IsParticipant || !asCreator.IsEditor {
		t.Fatal("creator should be participant and editor")
	}
	if len(asCreator.Participants) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(asCreator.Participants))
	}
}

func TestProposeFieldsUnknownProposal(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")

	dest := "Porto"
	if _, err := svc.ProposeFields(creator.ID, uuid.New(), FieldValues{Destination: &dest}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletedProposalBehavesAsAbsent(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	proposal := createProposal(t, db, creator.ID, nil)

	if _, _, err := NewParticipationService(db).Leave(creator.ID, proposal.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}

	if _, err := svc.Get(creator.ID, proposal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
	if _, err := svc.ChangeStatus(creator.ID, proposal.ID, "cancel"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on status change, got %v", err)
	}
}

// A proposal that was finalized keeps its rows even though membership is
// frozen; dates far in the past stay readable for the rating window.
func TestProposeFieldsKeepsPastDatesReadable(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	creator := createUser(t, db, "alice")
	past := time.Now().AddDate(0, -2, 0)
	proposal := createProposal(t, db, creator.ID, func(in *CreateProposalInput) {
		in.StartDate = past
		in.EndDate = past.AddDate(0, 0, 5)
	})

	detail, err := svc.Get(creator.ID, proposal.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !detail.Proposal.EndDate.Before(time.Now()) {
		t.Fatal("trip should read as ended")
	}
}
