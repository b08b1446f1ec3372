package auth

import (
	"github.com/cj-tomlin/skate-project/internal/apperr"
	"github.com/cj-tomlin/skate-project/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.Validation("invalid payload")
		}
		if err := validate.Struct(req); err != nil {
			return err
		}
		user, tokens, err := svc.Register(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "tokens": tokens})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.Validation("invalid payload")
		}
		if err := validate.Struct(req); err != nil {
			return err
		}
		_, resp, err := svc.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	r.Post("/refresh", func(c *fiber.Ctx) error {
		var req RefreshRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.Validation("invalid payload")
		}
		if err := validate.Struct(req); err != nil {
			return err
		}
		resp, err := svc.Refresh(c.UserContext(), req.RefreshToken)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		user, err := svc.UserByID(c.UserContext(), ActorFrom(c).UserID)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})
}

// RegisterUserRoutes mounts account and user administration endpoints.
func RegisterUserRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		var q ListUsersQuery
		if err := c.QueryParser(&q); err != nil {
			return apperr.Validation("invalid query parameters")
		}
		if err := validate.Struct(q); err != nil {
			return err
		}
		page, err := svc.ListUsers(c.UserContext(), ActorFrom(c), q.Page, q.PageSize)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})

	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		user, err := svc.UserByID(c.UserContext(), ActorFrom(c).UserID)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})

	r.Put("/me", authMiddleware, func(c *fiber.Ctx) error {
		var patch UserPatch
		if err := bind(c, &patch); err != nil {
			return err
		}
		actor := ActorFrom(c)
		user, err := svc.UpdateUser(c.UserContext(), actor, actor.UserID, patch)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})

	r.Put("/me/password", authMiddleware, func(c *fiber.Ctx) error {
		var req PasswordChangeRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := svc.ChangePassword(c.UserContext(), ActorFrom(c), req); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		user, err := svc.GetUser(c.UserContext(), ActorFrom(c), id)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var patch UserPatch
		if err := bind(c, &patch); err != nil {
			return err
		}
		user, err := svc.UpdateUser(c.UserContext(), ActorFrom(c), id, patch)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})

	r.Delete("/:id", authMiddleware, userStatus(func(c *fiber.Ctx, id string) error {
		return svc.DeleteUser(c.UserContext(), ActorFrom(c), id)
	}))
	r.Put("/:id/undelete", authMiddleware, userStatus(func(c *fiber.Ctx, id string) error {
		return svc.RestoreUser(c.UserContext(), ActorFrom(c), id)
	}))
	r.Put("/:id/activate", authMiddleware, userStatus(func(c *fiber.Ctx, id string) error {
		return svc.SetActive(c.UserContext(), ActorFrom(c), id, true)
	}))
	r.Put("/:id/deactivate", authMiddleware, userStatus(func(c *fiber.Ctx, id string) error {
		return svc.SetActive(c.UserContext(), ActorFrom(c), id, false)
	}))

	r.Put("/:id/role", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req RoleRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		user, err := svc.SetRole(c.UserContext(), ActorFrom(c), id, req.Role)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})
}

func userStatus(op func(c *fiber.Ctx, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := op(c, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid payload")
	}
	return validate.Struct(out)
}

func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := validate.Var("id", id, "required,uuid"); err != nil {
		return "", err
	}
	return id, nil
}
