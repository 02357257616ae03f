package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oliverdacre/travel-together/internal/dto"
	"github.com/oliverdacre/travel-together/internal/services"
)

type MeetupHandler struct {
	meetupService *services.MeetupService
}

func NewMeetupHandler(meetupService *services.MeetupService) *MeetupHandler {
	return &MeetupHandler{meetupService: meetupService}
}

func (h *MeetupHandler) Create(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	var req dto.CreateMeetupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	scheduledTime, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "scheduled_time must be RFC 3339",
		})
	}

	meetup, err := h.meetupService.Create(actor.ID, proposalID, req.Location, scheduledTime)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MeetupResponse{
		ID:            meetup.ID,
		Location:      meetup.Location,
		ScheduledTime: formatTimestamp(meetup.ScheduledTime),
	})
}

func (h *MeetupHandler) List(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	meetups, err := h.meetupService.List(actor.ID, proposalID)
	if err != nil {
		return serviceError(c, err)
	}

	items := make([]dto.MeetupResponse, 0, len(meetups))
	for _, m := range meetups {
		items = append(items, dto.MeetupResponse{
			ID:            m.ID,
			Location:      m.Location,
			ScheduledTime: formatTimestamp(m.ScheduledTime),
		})
	}
	return c.JSON(dto.MeetupListResponse{Meetups: items})
}
