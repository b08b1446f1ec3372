package auth

import (
	"context"
	"strings"

	"github.com/cj-tomlin/skate-project/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "user_id"
	localRole   = "role"
)

// Authenticator resolves a bearer token to its caller. *Service implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Actor, error)
}

// JWTMiddleware authenticates bearer tokens and stores the caller's id and role in locals.
func JWTMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return apperr.Unauthenticated("missing bearer token")
		}

		actor, err := authn.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(localUserID, actor.UserID)
		c.Locals(localRole, actor.Role)
		return c.Next()
	}
}

// ActorFrom reads the actor stored by JWTMiddleware; anonymous when absent.
func ActorFrom(c *fiber.Ctx) Actor {
	userID, _ := c.Locals(localUserID).(string)
	role, _ := c.Locals(localRole).(Role)
	return Actor{UserID: userID, Role: role}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
