package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/dto"
	"github.com/oliverdacre/travel-together/internal/services"
)

type RatingHandler struct {
	ratingService *services.RatingService
}

func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	var req dto.SubmitRatingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	scores := make(map[uuid.UUID]int, len(req.Ratings))
	for ratee, score := range req.Ratings {
		rateeID, err := uuid.Parse(ratee)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "ratee ids must be UUIDs",
			})
		}
		scores[rateeID] = score
	}

	if err := h.ratingService.Submit(actor.ID, proposalID, scores); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Ratings submitted"})
}

func (h *RatingHandler) ListGiven(c *fiber.Ctx) error {
	actor, proposalID, err := actorAndProposal(c)
	if err != nil {
		return err
	}

	ratings, err := h.ratingService.ListGiven(actor.ID, proposalID)
	if err != nil {
		return serviceError(c, err)
	}

	out := make(map[string]int, len(ratings))
	for ratee, score := range ratings {
		out[ratee.String()] = score
	}
	return c.JSON(dto.RatingsResponse{Ratings: out})
}
