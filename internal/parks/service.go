package parks

import (
	"context"

	"github.com/cj-tomlin/skate-project/internal/apperr"
	"github.com/cj-tomlin/skate-project/internal/auth"
	"github.com/cj-tomlin/skate-project/internal/cache"
)

const (
	keyAllFeatures  = "features:all"
	defaultPageSize = 20
	defaultRadiusKm = 10.0
)

func parkKey(id string) string    { return "parks:" + id }
func featureKey(id string) string { return "features:" + id }

// Store is the persistence contract the service depends on. *Repository satisfies it.
type Store interface {
	ParkExists(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (Park, error)
	List(ctx context.Context, f Filter, page, pageSize int) ([]Park, int, error)
	Create(ctx context.Context, in ParkInput) (Park, error)
	Update(ctx context.Context, id string, patch ParkPatch) (Park, error)
	Delete(ctx context.Context, id string) error
	AddFeature(ctx context.Context, parkID, featureID string) error
	RemoveFeature(ctx context.Context, parkID, featureID string) error
	AddRating(ctx context.Context, parkID, userID string, rating int, review string) (Rating, error)
	RatingByID(ctx context.Context, id string) (Rating, error)
	Ratings(ctx context.Context, parkID string) ([]Rating, error)
	AddPhoto(ctx context.Context, parkID, userID string, in PhotoInput) (Photo, error)
	PhotoByID(ctx context.Context, id string) (Photo, error)
	Photos(ctx context.Context, parkID string) ([]Photo, error)
	SetPrimaryPhoto(ctx context.Context, parkID, photoID string) error
	DeletePhoto(ctx context.Context, id string) error
	FeatureByID(ctx context.Context, id string) (Feature, error)
	Features(ctx context.Context) ([]Feature, error)
	CreateFeature(ctx context.Context, in FeatureInput) (Feature, error)
	UpdateFeature(ctx context.Context, id string, patch FeaturePatch) (Feature, error)
	DeleteFeature(ctx context.Context, id string) error
	ParkIDsForFeature(ctx context.Context, featureID string) ([]string, error)
}

// Service applies authorization, validation and caching on top of a Store.
type Service struct {
	repo            Store
	cache           *cache.Accessor
	defaultPageSize int
	maxPageSize     int
}

func NewService(repo Store, c *cache.Accessor, defaultSize, maxSize int) *Service {
	if defaultSize <= 0 {
		defaultSize = defaultPageSize
	}
	if maxSize <= 0 {
		maxSize = defaultMaxPageSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	return &Service{repo: repo, cache: c, defaultPageSize: defaultSize, maxPageSize: maxSize}
}

func (s *Service) GetPark(ctx context.Context, id string) (Park, error) {
	return cache.GetOrLoad(ctx, s.cache, parkKey(id), func(ctx context.Context) (Park, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// ListParks reads straight from the store; listings are not cached.
func (s *Service) ListParks(ctx context.Context, f Filter, page, pageSize int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	if f.Near != nil && f.Near.RadiusKm <= 0 {
		f.Near.RadiusKm = defaultRadiusKm
	}

	items, total, err := s.repo.List(ctx, f, page, pageSize)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *Service) CreatePark(ctx context.Context, actor auth.Actor, in ParkInput) (Park, error) {
	if err := auth.RequireRole(actor, auth.RoleModerator, auth.RoleAdmin); err != nil {
		return Park{}, err
	}
	in.normalize()
	if err := in.Validate(); err != nil {
		return Park{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) UpdatePark(ctx context.Context, actor auth.Actor, id string, patch ParkPatch) (Park, error) {
	if err := auth.RequireRole(actor, auth.RoleModerator, auth.RoleAdmin); err != nil {
		return Park{}, err
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Park{}, err
	}
	s.cache.Invalidate(ctx, parkKey(id))
	return p, nil
}

func (s *Service) DeletePark(ctx context.Context, actor auth.Actor, id string) error {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, parkKey(id))
	return nil
}

// RatePark records the actor's rating, replacing any earlier one for the same park.
func (s *Service) RatePark(ctx context.Context, actor auth.Actor, parkID string, rating int, review string) (Rating, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return Rating{}, err
	}
	if err := validateRating(rating); err != nil {
		return Rating{}, err
	}
	if err := s.repo.ParkExists(ctx, parkID); err != nil {
		return Rating{}, err
	}
	r, err := s.repo.AddRating(ctx, parkID, actor.UserID, rating, review)
	if err != nil {
		return Rating{}, err
	}
	s.cache.Invalidate(ctx, parkKey(parkID))
	return r, nil
}

func (s *Service) ListRatings(ctx context.Context, parkID string) ([]Rating, error) {
	if err := s.repo.ParkExists(ctx, parkID); err != nil {
		return nil, err
	}
	return s.repo.Ratings(ctx, parkID)
}

func (s *Service) GetRating(ctx context.Context, parkID, ratingID string) (Rating, error) {
	r, err := s.repo.RatingByID(ctx, ratingID)
	if err != nil {
		return Rating{}, err
	}
	if r.ParkID != parkID {
		return Rating{}, apperr.NotFound("rating %s not found", ratingID)
	}
	return r, nil
}

// ManageFeature links or unlinks a feature. Both ends must exist.
func (s *Service) ManageFeature(ctx context.Context, actor auth.Actor, parkID, featureID string, op FeatureOp) error {
	if err := auth.RequireRole(actor, auth.RoleModerator, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.ParkExists(ctx, parkID); err != nil {
		return err
	}
	if _, err := s.repo.FeatureByID(ctx, featureID); err != nil {
		return err
	}

	var err error
	switch op {
	case OpLink:
		err = s.repo.AddFeature(ctx, parkID, featureID)
	case OpUnlink:
		err = s.repo.RemoveFeature(ctx, parkID, featureID)
	default:
		return apperr.Validation("unknown feature operation")
	}
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, parkKey(parkID))
	return nil
}

func (s *Service) AddPhoto(ctx context.Context, actor auth.Actor, parkID string, in PhotoInput) (Photo, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return Photo{}, err
	}
	if err := in.Validate(); err != nil {
		return Photo{}, err
	}
	if err := s.repo.ParkExists(ctx, parkID); err != nil {
		return Photo{}, err
	}
	return s.repo.AddPhoto(ctx, parkID, actor.UserID, in)
}

func (s *Service) ListPhotos(ctx context.Context, parkID string) ([]Photo, error) {
	if err := s.repo.ParkExists(ctx, parkID); err != nil {
		return nil, err
	}
	return s.repo.Photos(ctx, parkID)
}

func (s *Service) GetPhoto(ctx context.Context, parkID, photoID string) (Photo, error) {
	p, err := s.repo.PhotoByID(ctx, photoID)
	if err != nil {
		return Photo{}, err
	}
	if p.ParkID != parkID {
		return Photo{}, apperr.NotFound("photo %s not found", photoID)
	}
	return p, nil
}

// SetPrimaryPhoto is allowed for the uploader, moderators and admins.
func (s *Service) SetPrimaryPhoto(ctx context.Context, actor auth.Actor, parkID, photoID string) (Photo, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return Photo{}, err
	}
	p, err := s.GetPhoto(ctx, parkID, photoID)
	if err != nil {
		return Photo{}, err
	}
	if err := auth.RequireOwnerOrRole(actor, p.UploadedBy, auth.RoleModerator, auth.RoleAdmin); err != nil {
		return Photo{}, err
	}
	if err := s.repo.SetPrimaryPhoto(ctx, parkID, photoID); err != nil {
		return Photo{}, err
	}
	p.IsPrimary = true
	return p, nil
}

func (s *Service) DeletePhoto(ctx context.Context, actor auth.Actor, parkID, photoID string) error {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}
	p, err := s.GetPhoto(ctx, parkID, photoID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnerOrRole(actor, p.UploadedBy, auth.RoleModerator, auth.RoleAdmin); err != nil {
		return err
	}
	return s.repo.DeletePhoto(ctx, photoID)
}

func (s *Service) ListFeatures(ctx context.Context) ([]Feature, error) {
	return cache.GetOrLoad(ctx, s.cache, keyAllFeatures, s.repo.Features)
}

func (s *Service) GetFeature(ctx context.Context, id string) (Feature, error) {
	return cache.GetOrLoad(ctx, s.cache, featureKey(id), func(ctx context.Context) (Feature, error) {
		return s.repo.FeatureByID(ctx, id)
	})
}

func (s *Service) CreateFeature(ctx context.Context, actor auth.Actor, in FeatureInput) (Feature, error) {
	if err := auth.RequireRole(actor, auth.RoleModerator, auth.RoleAdmin); err != nil {
		return Feature{}, err
	}
	if err := in.Validate(); err != nil {
		return Feature{}, err
	}
	f, err := s.repo.CreateFeature(ctx, in)
	if err != nil {
		return Feature{}, err
	}
	s.cache.Invalidate(ctx, keyAllFeatures)
	return f, nil
}

func (s *Service) UpdateFeature(ctx context.Context, actor auth.Actor, id string, patch FeaturePatch) (Feature, error) {
	if err := auth.RequireRole(actor, auth.RoleModerator, auth.RoleAdmin); err != nil {
		return Feature{}, err
	}
	f, err := s.repo.UpdateFeature(ctx, id, patch)
	if err != nil {
		return Feature{}, err
	}
	s.invalidateFeature(ctx, id)
	return f, nil
}

func (s *Service) DeleteFeature(ctx context.Context, actor auth.Actor, id string) error {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return err
	}
	// Linked parks must be read before the cascade removes the links.
	parkIDs, err := s.repo.ParkIDsForFeature(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFeature(ctx, id); err != nil {
		return err
	}
	keys := []string{keyAllFeatures, featureKey(id)}
	for _, pid := range parkIDs {
		keys = append(keys, parkKey(pid))
	}
	s.cache.Invalidate(ctx, keys...)
	return nil
}

// invalidateFeature drops the feature entries and every park embedding the feature.
func (s *Service) invalidateFeature(ctx context.Context, id string) {
	keys := []string{keyAllFeatures, featureKey(id)}
	parkIDs, err := s.repo.ParkIDsForFeature(ctx, id)
	if err == nil {
		for _, pid := range parkIDs {
			keys = append(keys, parkKey(pid))
		}
	}
	s.cache.Invalidate(ctx, keys...)
}
