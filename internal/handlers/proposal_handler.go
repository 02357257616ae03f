package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/auth"
	"github.com/oliverdacre/travel-together/internal/dto"
	"github.com/oliverdacre/travel-together/internal/models"
	"github.com/oliverdacre/travel-together/internal/services"
)

type ProposalHandler struct {
	proposalService      *services.ProposalService
	participationService *services.ParticipationService
}

func NewProposalHandler(proposalService *services.ProposalService, participationService *services.ParticipationService) *ProposalHandler {
	return &ProposalHandler{
		proposalService:      proposalService,
		participationService: participationService,
	}
}

func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "start_date must be YYYY-MM-DD",
		})
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "end_date must be YYYY-MM-DD",
		})
	}

	proposal, err := h.proposalService.Create(actor.ID, services.CreateProposalInput{
		Title:              req.Title,
		Description:        req.Description,
		Destination:        req.Destination,
		Budget:             req.Budget,
		DepartureLocations: req.DepartureLocations,
		Activities:         req.Activities,
		StartDate:          startDate,
		EndDate:            endDate,
		MaxParticipants:    req.MaxParticipants,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(summaryResponse(proposal, 1))
}

func (h *ProposalHandler) List(c *fiber.Ctx) error {
	proposals, total, err := h.proposalService.List()
	if err != nil {
		return serviceError(c, err)
	}

	items := make([]dto.ProposalSummary, 0, len(proposals))
	for i := range proposals {
		items = append(items, summaryResponse(&proposals[i].TripProposal, proposals[i].ParticipantCount))
	}
	return c.JSON(dto.ProposalListResponse{Proposals: items, Total: total})
}

func (h *ProposalHandler) Detail(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	detail, err := h.proposalService.Get(actor.ID, proposalID)
	if err != nil {
		return serviceError(c, err)
	}

	resp := dto.ProposalDetailResponse{
		ID:            detail.Proposal.ID,
		Title:         detail.Proposal.Title,
		Status:        string(detail.Proposal.Status),
		Fields:        fieldStates(&detail.Proposal),
		CreatorID:     detail.Proposal.CreatorID,
		CreatedAt:     formatTimestamp(detail.Proposal.CreatedAt),
		IsParticipant: detail.IsParticipant,
		IsEditor:      detail.IsEditor,
	}
	for _, p := range detail.Participants {
		resp.Participants = append(resp.Participants, dto.ParticipantView{
			UserID:   p.UserID,
			Name:     p.User.Name,
			IsEditor: p.IsEditor,
			JoinedAt: formatTimestamp(p.JoinedAt),
		})
	}
	for _, m := range detail.Meetups {
		resp.Meetups = append(resp.Meetups, dto.MeetupResponse{
			ID:            m.ID,
			Location:      m.Location,
			ScheduledTime: formatTimestamp(m.ScheduledTime),
		})
	}
	return c.JSON(resp)
}

func (h *ProposalHandler) PatchFields(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	var req dto.PatchFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	values := services.FieldValues{
		Description:        req.Description,
		Destination:        req.Destination,
		Budget:             req.Budget,
		DepartureLocations: req.DepartureLocations,
		Activities:         req.Activities,
		MaxParticipants:    req.MaxParticipants,
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "start_date must be YYYY-MM-DD",
			})
		}
		values.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "end_date must be YYYY-MM-DD",
			})
		}
		values.EndDate = &t
	}

	proposal, err := h.proposalService.ProposeFields(actor.ID, proposalID, values)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": string(proposal.Status), "fields": fieldStates(proposal)})
}

func (h *ProposalHandler) FinalizeFields(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	var req dto.FinalizeFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	proposal, err := h.proposalService.MarkFinal(actor.ID, proposalID, req.Fields)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": string(proposal.Status), "fields": fieldStates(proposal)})
}

func (h *ProposalHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	proposal, err := h.proposalService.ChangeStatus(actor.ID, proposalID, req.Action)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": string(proposal.Status)})
}

func (h *ProposalHandler) Join(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	status, auto, err := h.participationService.Join(actor.ID, proposalID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MembershipChangeResponse{
		Status:         string(status),
		AutoTransition: string(auto),
	})
}

func (h *ProposalHandler) Leave(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	status, auto, err := h.participationService.Leave(actor.ID, proposalID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MembershipChangeResponse{
		Status:         string(status),
		AutoTransition: string(auto),
	})
}

func (h *ProposalHandler) GrantEditor(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	var req dto.GrantEditorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.participationService.AddEditor(actor.ID, proposalID, req.UserID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Editor role granted"})
}

func (h *ProposalHandler) RevokeEditor(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if err := h.participationService.RemoveEditor(actor.ID, proposalID, targetID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Editor role revoked"})
}

// actorAndProposal extracts the authenticated actor and the :id path
// param. Failures surface as *fiber.Error for the app error handler.
func actorAndProposal(c *fiber.Ctx) (auth.Actor, uuid.UUID, error) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		return auth.Actor{}, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	proposalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return auth.Actor{}, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid proposal ID")
	}
	return actor, proposalID, nil
}

func summaryResponse(p *models.TripProposal, participantCount int) dto.ProposalSummary {
	return dto.ProposalSummary{
		ID:               p.ID,
		Title:            p.Title,
		Destination:      p.Destination,
		StartDate:        formatDate(p.StartDate),
		EndDate:          formatDate(p.EndDate),
		Status:           string(p.Status),
		MaxParticipants:  p.MaxParticipants,
		ParticipantCount: participantCount,
		CreatorID:        p.CreatorID,
		CreatedAt:        formatTimestamp(p.CreatedAt),
	}
}

func fieldStates(p *models.TripProposal) map[string]dto.FieldState {
	var budget interface{}
	if p.Budget != nil {
		budget = *p.Budget
	}
	values := map[models.PlannableField]interface{}{
		models.FieldDescription:        p.Description,
		models.FieldDestination:        p.Destination,
		models.FieldBudget:             budget,
		models.FieldDepartureLocations: services.JSONToStrings(p.DepartureLocations),
		models.FieldActivities:         services.JSONToStrings(p.Activities),
		models.FieldStartDate:          formatDate(p.StartDate),
		models.FieldEndDate:            formatDate(p.EndDate),
		models.FieldMaxParticipants:    p.MaxParticipants,
	}

	out := make(map[string]dto.FieldState, len(models.PlannableFields))
	for _, f := range models.PlannableFields {
		out[string(f)] = dto.FieldState{
			Value:     values[f],
			Finalized: *p.FinalFlag(f),
		}
	}
	return out
}
