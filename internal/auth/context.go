package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Actor is the already-authenticated caller of an operation: a stable id
// plus a display name taken from the token, so handlers never re-read the
// user row just to identify the caller.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// CurrentActor extracts the actor from the JWT placed in context by the
// auth middleware.
func CurrentActor(c *fiber.Ctx) (Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Actor{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Actor{}, errors.New("missing sub claim")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Actor{}, err
	}

	name, _ := claims["name"].(string)
	return Actor{ID: id, Name: name}, nil
}
