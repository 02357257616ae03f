package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/oliverdacre/travel-together/internal/config"
	"github.com/oliverdacre/travel-together/internal/handlers"
	"github.com/oliverdacre/travel-together/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	proposalHandler *handlers.ProposalHandler,
	messageHandler *handlers.MessageHandler,
	meetupHandler *handlers.MeetupHandler,
	ratingHandler *handlers.RatingHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Everything below requires an authenticated actor.
	protected := api.Group("", middleware.JWTProtected(cfg))

	protected.Get("/users/:id", profileHandler.GetProfile)
	protected.Put("/users/me", profileHandler.UpdateProfile)
	protected.Put("/users/me/avatar", profileHandler.UploadAvatar)

	protected.Post("/proposals", proposalHandler.Create)
	protected.Get("/proposals", proposalHandler.List)
	protected.Get("/proposals/:id", proposalHandler.Detail)
	protected.Patch("/proposals/:id/fields", proposalHandler.PatchFields)
	protected.Post("/proposals/:id/finalize-fields", proposalHandler.FinalizeFields)
	protected.Post("/proposals/:id/status", proposalHandler.ChangeStatus)
	protected.Post("/proposals/:id/join", proposalHandler.Join)
	protected.Post("/proposals/:id/leave", proposalHandler.Leave)
	protected.Post("/proposals/:id/editors", proposalHandler.GrantEditor)
	protected.Delete("/proposals/:id/editors/:userId", proposalHandler.RevokeEditor)

	protected.Post("/proposals/:id/meetups", meetupHandler.Create)
	protected.Get("/proposals/:id/meetups", meetupHandler.List)

	protected.Post("/proposals/:id/messages", messageHandler.Post)
	protected.Get("/proposals/:id/messages", messageHandler.ListSince)

	protected.Post("/proposals/:id/ratings", ratingHandler.Submit)
	protected.Get("/proposals/:id/ratings", ratingHandler.ListGiven)
}
