package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/auth"
	"github.com/oliverdacre/travel-together/internal/dto"
	"github.com/oliverdacre/travel-together/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	profile, err := h.profileService.Get(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profileResponse(profile))
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	update := services.ProfileUpdate{
		Name:     req.Name,
		Gender:   req.Gender,
		Bio:      req.Bio,
		Location: req.Location,
		Phone:    req.Phone,
	}
	if req.Birthdate != nil {
		birthdate, err := parseDate(*req.Birthdate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "birthdate must be YYYY-MM-DD",
			})
		}
		update.Birthdate = &birthdate
	}

	if _, err := h.profileService.Update(actor.ID, update); err != nil {
		return serviceError(c, err)
	}

	profile, err := h.profileService.Get(actor.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profileResponse(profile))
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AvatarUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	key, err := h.profileService.SetAvatar(actor.ID, req.Data)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.AvatarUploadResponse{AvatarKey: key})
}

func profileResponse(p *services.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:            p.User.ID,
		Email:         p.User.Email,
		Name:          p.User.Name,
		Gender:        p.User.Gender,
		AvatarKey:     p.User.AvatarKey,
		Bio:           p.User.Bio,
		Location:      p.User.Location,
		Phone:         p.User.Phone,
		AverageRating: p.AverageRating,
		RatingCount:   p.RatingCount,
	}
	if p.User.Birthdate != nil {
		b := formatDate(*p.User.Birthdate)
		resp.Birthdate = &b
	}
	return resp
}
