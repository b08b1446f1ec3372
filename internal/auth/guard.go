package auth

import "github.com/cj-tomlin/skate-project/internal/apperr"

// RequireAuthenticated fails with Unauthenticated for anonymous actors.
func RequireAuthenticated(actor Actor) error {
	if !actor.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

// RequireRole fails with Unauthenticated for anonymous actors and Forbidden
// when the actor's role is not in roles.
func RequireRole(actor Actor, roles ...Role) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("not enough permissions")
}

// RequireOwnerOrRole passes when the actor is ownerID or holds one of roles.
func RequireOwnerOrRole(actor Actor, ownerID string, roles ...Role) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if ownerID != "" && actor.UserID == ownerID {
		return nil
	}
	return RequireRole(actor, roles...)
}
