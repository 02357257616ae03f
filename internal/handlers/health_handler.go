package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oliverdacre/travel-together/internal/database"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unreachable"
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": dbStatus,
	})
}
