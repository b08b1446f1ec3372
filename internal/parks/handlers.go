package parks

import (
	"github.com/cj-tomlin/skate-project/internal/apperr"
	"github.com/cj-tomlin/skate-project/internal/auth"
	"github.com/cj-tomlin/skate-project/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		var q ListParksQuery
		if err := c.QueryParser(&q); err != nil {
			return apperr.Validation("invalid query parameters")
		}
		if err := validate.Struct(q); err != nil {
			return err
		}
		page, err := svc.ListParks(c.UserContext(), q.Filter(), q.Page, q.PageSize)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		park, err := svc.GetPark(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(park)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateParkRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		park, err := svc.CreatePark(c.UserContext(), auth.ActorFrom(c), req.Input())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(park)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req UpdateParkRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		park, err := svc.UpdatePark(c.UserContext(), auth.ActorFrom(c), id, req.Patch())
		if err != nil {
			return err
		}
		return c.JSON(park)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeletePark(c.UserContext(), auth.ActorFrom(c), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/ratings", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req RatingRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		rating, err := svc.RatePark(c.UserContext(), auth.ActorFrom(c), id, req.Rating, req.Review)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(rating)
	})

	r.Get("/:id/ratings", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		ratings, err := svc.ListRatings(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(ratings)
	})

	r.Get("/:id/ratings/:rating_id", func(c *fiber.Ctx) error {
		ids, err := pathIDs(c, "id", "rating_id")
		if err != nil {
			return err
		}
		rating, err := svc.GetRating(c.UserContext(), ids[0], ids[1])
		if err != nil {
			return err
		}
		return c.JSON(rating)
	})

	r.Post("/:id/features/:feature_id", authMiddleware, manageFeature(svc, OpLink))
	r.Delete("/:id/features/:feature_id", authMiddleware, manageFeature(svc, OpUnlink))

	r.Post("/:id/photos", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req PhotoRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		photo, err := svc.AddPhoto(c.UserContext(), auth.ActorFrom(c), id, req.Input())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(photo)
	})

	r.Get("/:id/photos", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		photos, err := svc.ListPhotos(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(photos)
	})

	r.Get("/:id/photos/:photo_id", func(c *fiber.Ctx) error {
		ids, err := pathIDs(c, "id", "photo_id")
		if err != nil {
			return err
		}
		photo, err := svc.GetPhoto(c.UserContext(), ids[0], ids[1])
		if err != nil {
			return err
		}
		return c.JSON(photo)
	})

	r.Put("/:id/photos/:photo_id/primary", authMiddleware, func(c *fiber.Ctx) error {
		ids, err := pathIDs(c, "id", "photo_id")
		if err != nil {
			return err
		}
		photo, err := svc.SetPrimaryPhoto(c.UserContext(), auth.ActorFrom(c), ids[0], ids[1])
		if err != nil {
			return err
		}
		return c.JSON(photo)
	})

	r.Delete("/:id/photos/:photo_id", authMiddleware, func(c *fiber.Ctx) error {
		ids, err := pathIDs(c, "id", "photo_id")
		if err != nil {
			return err
		}
		if err := svc.DeletePhoto(c.UserContext(), auth.ActorFrom(c), ids[0], ids[1]); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// RegisterFeatureRoutes mounts the feature catalogue.
func RegisterFeatureRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		features, err := svc.ListFeatures(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(features)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		feature, err := svc.GetFeature(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(feature)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateFeatureRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		feature, err := svc.CreateFeature(c.UserContext(), auth.ActorFrom(c), req.Input())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(feature)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req UpdateFeatureRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		feature, err := svc.UpdateFeature(c.UserContext(), auth.ActorFrom(c), id, req.Patch())
		if err != nil {
			return err
		}
		return c.JSON(feature)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteFeature(c.UserContext(), auth.ActorFrom(c), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func manageFeature(svc *Service, op FeatureOp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := pathIDs(c, "id", "feature_id")
		if err != nil {
			return err
		}
		if err := svc.ManageFeature(c.UserContext(), auth.ActorFrom(c), ids[0], ids[1], op); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("invalid payload")
	}
	return validate.Struct(dst)
}

func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if err := validate.Var(name, id, "required,uuid"); err != nil {
		return "", err
	}
	return id, nil
}

func pathIDs(c *fiber.Ctx, names ...string) ([]string, error) {
	ids := make([]string, len(names))
	for i, name := range names {
		id, err := pathID(c, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
