package parks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cj-tomlin/skate-project/internal/apperr"
	"github.com/cj-tomlin/skate-project/internal/db"
	"github.com/cj-tomlin/skate-project/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultMaxPageSize = 100

const parkColumns = `
	p.id, p.name, p.description, p.park_type, p.status, p.address, p.city, p.state, p.country,
	p.postal_code, p.latitude, p.longitude, p.is_free, p.opening_hours, p.website_url,
	p.phone_number, p.email, p.tags, p.created_at, p.updated_at,
	(SELECT AVG(r.rating)::float8 FROM park_ratings r WHERE r.park_id = p.id),
	(SELECT COUNT(*) FROM park_ratings r WHERE r.park_id = p.id)`

// Repository translates park operations into SQL. It owns query shape only.
type Repository struct {
	db          db.Querier
	maxPageSize int
}

func NewRepository(q db.Querier, maxPageSize int) *Repository {
	if maxPageSize <= 0 {
		maxPageSize = defaultMaxPageSize
	}
	return &Repository{db: q, maxPageSize: maxPageSize}
}

func (r *Repository) FindByID(ctx context.Context, id string) (Park, error) {
	return findPark(ctx, r.db, id)
}

// ParkExists returns NotFound when no park has id.
func (r *Repository) ParkExists(ctx context.Context, id string) error {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM parks WHERE id=$1)`, id).Scan(&ok); err != nil {
		return db.Translate(err, "park")
	}
	if !ok {
		return apperr.NotFound("park %s not found", id)
	}
	return nil
}

// List returns one page of parks in insertion order plus the unpaged total.
// A page past the end yields no items.
func (r *Repository) List(ctx context.Context, f Filter, page, pageSize int) ([]Park, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > r.maxPageSize {
		pageSize = r.maxPageSize
	}

	where, args := buildWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM parks p`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "park")
	}

	offset, ok := db.PageOffset(page, pageSize, total)
	if !ok {
		return []Park{}, total, nil
	}

	n := len(args)
	args = append(args, pageSize, offset)
	rows, err := r.db.Query(ctx, `SELECT `+parkColumns+` FROM parks p`+where+
		fmt.Sprintf(` ORDER BY p.created_at, p.id LIMIT $%d OFFSET $%d`, n+1, n+2), args...)
	if err != nil {
		return nil, 0, db.Translate(err, "park")
	}
	defer rows.Close()

	parks := []Park{}
	for rows.Next() {
		p, err := scanPark(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "park")
		}
		parks = append(parks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Translate(err, "park")
	}
	rows.Close()

	if err := attachFeatures(ctx, r.db, parks); err != nil {
		return nil, 0, err
	}
	if f.Near != nil {
		for i := range parks {
			if parks[i].Latitude != nil && parks[i].Longitude != nil {
				d := geo.HaversineKm(f.Near.Lat, f.Near.Lng, *parks[i].Latitude, *parks[i].Longitude)
				parks[i].DistanceKm = &d
			}
		}
	}
	return parks, total, nil
}

// Create inserts a park and links in.FeatureIDs in one transaction.
func (r *Repository) Create(ctx context.Context, in ParkInput) (Park, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return Park{}, err
	}

	p := parkFromInput(uuid.NewString(), in)
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO parks (id, name, description, park_type, status, address, city, state, country,
			                   postal_code, latitude, longitude, is_free, opening_hours, website_url,
			                   phone_number, email, tags)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
			RETURNING created_at, updated_at
		`, p.ID, p.Name, p.Description, string(p.ParkType), string(p.Status), p.Address, p.City, p.State, p.Country,
			p.PostalCode, p.Latitude, p.Longitude, p.IsFree, hoursJSON(p.OpeningHours), p.WebsiteURL,
			p.PhoneNumber, p.Email, p.Tags)
		if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return db.Translate(err, "park")
		}
		if len(in.FeatureIDs) == 0 {
			return nil
		}
		if err := linkFeatures(ctx, tx, p.ID, in.FeatureIDs); err != nil {
			return err
		}
		features, err := featuresFor(ctx, tx, []string{p.ID})
		if err != nil {
			return err
		}
		p.Features = features[p.ID]
		return nil
	})
	if err != nil {
		return Park{}, err
	}
	if p.Features == nil {
		p.Features = []Feature{}
	}
	return p, nil
}

// Update overwrites only the fields present in patch and refreshes updated_at.
// When patch.SetFeatures is true the park's feature set is replaced.
func (r *Repository) Update(ctx context.Context, id string, patch ParkPatch) (Park, error) {
	var out Park
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		cur, err := findPark(ctx, tx, id)
		if err != nil {
			return err
		}
		in := merge(cur, patch)
		in.normalize()
		if err := in.Validate(); err != nil {
			return err
		}

		p := parkFromInput(cur.ID, in)
		p.CreatedAt = cur.CreatedAt
		p.AverageRating = cur.AverageRating
		p.RatingCount = cur.RatingCount
		p.Features = cur.Features

		row := tx.QueryRow(ctx, `
			UPDATE parks
			SET name=$2, description=$3, park_type=$4, status=$5, address=$6, city=$7, state=$8,
			    country=$9, postal_code=$10, latitude=$11, longitude=$12, is_free=$13,
			    opening_hours=$14, website_url=$15, phone_number=$16, email=$17, tags=$18,
			    updated_at=clock_timestamp()
			WHERE id=$1
			RETURNING updated_at
		`, p.ID, p.Name, p.Description, string(p.ParkType), string(p.Status), p.Address, p.City, p.State,
			p.Country, p.PostalCode, p.Latitude, p.Longitude, p.IsFree,
			hoursJSON(p.OpeningHours), p.WebsiteURL, p.PhoneNumber, p.Email, p.Tags)
		if err := row.Scan(&p.UpdatedAt); err != nil {
			return db.Translate(err, "park")
		}

		if patch.SetFeatures {
			if err := replaceFeatures(ctx, tx, p.ID, patch.FeatureIDs); err != nil {
				return err
			}
			features, err := featuresFor(ctx, tx, []string{p.ID})
			if err != nil {
				return err
			}
			p.Features = features[p.ID]
			if p.Features == nil {
				p.Features = []Feature{}
			}
		}
		out = p
		return nil
	})
	return out, err
}

// Delete removes a park; photos, ratings and feature links cascade in the store.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM parks WHERE id=$1`, id)
	if err != nil {
		return db.Translate(err, "park")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("park %s not found", id)
	}
	return nil
}

// AddFeature links a feature to a park. Linking twice is a no-op.
func (r *Repository) AddFeature(ctx context.Context, parkID, featureID string) error {
	return linkFeatures(ctx, r.db, parkID, []string{featureID})
}

// RemoveFeature unlinks a feature from a park. Unlinking an absent link is a no-op.
func (r *Repository) RemoveFeature(ctx context.Context, parkID, featureID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM park_features WHERE park_id=$1 AND feature_id=$2`, parkID, featureID)
	return db.Translate(err, "park feature")
}

// ReplaceFeatures sets a park's features to exactly featureIDs.
func (r *Repository) ReplaceFeatures(ctx context.Context, parkID string, featureIDs []string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return replaceFeatures(ctx, tx, parkID, featureIDs)
	})
}

// AddRating inserts the user's rating for a park or replaces their previous one.
func (r *Repository) AddRating(ctx context.Context, parkID, userID string, rating int, review string) (Rating, error) {
	if err := validateRating(rating); err != nil {
		return Rating{}, err
	}

	out := Rating{ParkID: parkID, UserID: userID, Rating: rating, Review: review}
	row := r.db.QueryRow(ctx, `
		INSERT INTO park_ratings (id, park_id, user_id, rating, review)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (park_id, user_id) DO UPDATE
		SET rating=EXCLUDED.rating, review=EXCLUDED.review, updated_at=now()
		RETURNING id, created_at, updated_at
	`, uuid.NewString(), parkID, userID, rating, review)
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return Rating{}, db.Translate(err, "rating")
	}
	return out, nil
}

func (r *Repository) RatingByID(ctx context.Context, id string) (Rating, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, park_id, user_id, rating, review, created_at, updated_at
		FROM park_ratings WHERE id=$1
	`, id)
	var out Rating
	if err := row.Scan(&out.ID, &out.ParkID, &out.UserID, &out.Rating, &out.Review, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return Rating{}, db.Translate(err, "rating")
	}
	return out, nil
}

func (r *Repository) Ratings(ctx context.Context, parkID string) ([]Rating, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, park_id, user_id, rating, review, created_at, updated_at
		FROM park_ratings WHERE park_id=$1
		ORDER BY created_at, id
	`, parkID)
	if err != nil {
		return nil, db.Translate(err, "rating")
	}
	defer rows.Close()

	ratings := []Rating{}
	for rows.Next() {
		var rt Rating
		if err := rows.Scan(&rt.ID, &rt.ParkID, &rt.UserID, &rt.Rating, &rt.Review, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, db.Translate(err, "rating")
		}
		ratings = append(ratings, rt)
	}
	return ratings, db.Translate(rows.Err(), "rating")
}

// AddPhoto stores a photo. A primary photo demotes the park's previous primary
// in the same transaction.
func (r *Repository) AddPhoto(ctx context.Context, parkID, userID string, in PhotoInput) (Photo, error) {
	out := Photo{
		ID:         uuid.NewString(),
		ParkID:     parkID,
		URL:        in.URL,
		Caption:    in.Caption,
		IsPrimary:  in.IsPrimary,
		UploadedBy: userID,
	}
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if in.IsPrimary {
			if _, err := tx.Exec(ctx, `UPDATE park_photos SET is_primary=FALSE WHERE park_id=$1 AND is_primary`, parkID); err != nil {
				return db.Translate(err, "photo")
			}
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO park_photos (id, park_id, url, caption, is_primary, uploaded_by)
			VALUES ($1,$2,$3,$4,$5,NULLIF($6,'')::uuid)
			RETURNING uploaded_at
		`, out.ID, out.ParkID, out.URL, out.Caption, out.IsPrimary, out.UploadedBy)
		return db.Translate(row.Scan(&out.UploadedAt), "photo")
	})
	if err != nil {
		return Photo{}, err
	}
	return out, nil
}

func (r *Repository) PhotoByID(ctx context.Context, id string) (Photo, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, park_id, url, caption, is_primary, COALESCE(uploaded_by::text, ''), uploaded_at
		FROM park_photos WHERE id=$1
	`, id)
	var p Photo
	if err := row.Scan(&p.ID, &p.ParkID, &p.URL, &p.Caption, &p.IsPrimary, &p.UploadedBy, &p.UploadedAt); err != nil {
		return Photo{}, db.Translate(err, "photo")
	}
	return p, nil
}

func (r *Repository) Photos(ctx context.Context, parkID string) ([]Photo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, park_id, url, caption, is_primary, COALESCE(uploaded_by::text, ''), uploaded_at
		FROM park_photos WHERE park_id=$1
		ORDER BY is_primary DESC, uploaded_at, id
	`, parkID)
	if err != nil {
		return nil, db.Translate(err, "photo")
	}
	defer rows.Close()

	photos := []Photo{}
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.ParkID, &p.URL, &p.Caption, &p.IsPrimary, &p.UploadedBy, &p.UploadedAt); err != nil {
			return nil, db.Translate(err, "photo")
		}
		photos = append(photos, p)
	}
	return photos, db.Translate(rows.Err(), "photo")
}

// SetPrimaryPhoto makes photoID the park's only primary photo.
func (r *Repository) SetPrimaryPhoto(ctx context.Context, parkID, photoID string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE park_photos SET is_primary=FALSE WHERE park_id=$1 AND id<>$2 AND is_primary`, parkID, photoID); err != nil {
			return db.Translate(err, "photo")
		}
		tag, err := tx.Exec(ctx, `UPDATE park_photos SET is_primary=TRUE WHERE id=$1 AND park_id=$2`, photoID, parkID)
		if err != nil {
			return db.Translate(err, "photo")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("photo %s not found", photoID)
		}
		return nil
	})
}

func (r *Repository) DeletePhoto(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM park_photos WHERE id=$1`, id)
	if err != nil {
		return db.Translate(err, "photo")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("photo %s not found", id)
	}
	return nil
}

func (r *Repository) FeatureByID(ctx context.Context, id string) (Feature, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, description, icon_url FROM features WHERE id=$1`, id)
	var f Feature
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &f.IconURL); err != nil {
		return Feature{}, db.Translate(err, "feature")
	}
	return f, nil
}

func (r *Repository) Features(ctx context.Context) ([]Feature, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, icon_url FROM features ORDER BY name`)
	if err != nil {
		return nil, db.Translate(err, "feature")
	}
	defer rows.Close()

	features := []Feature{}
	for rows.Next() {
		var f Feature
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.IconURL); err != nil {
			return nil, db.Translate(err, "feature")
		}
		features = append(features, f)
	}
	return features, db.Translate(rows.Err(), "feature")
}

func (r *Repository) CreateFeature(ctx context.Context, in FeatureInput) (Feature, error) {
	if err := in.Validate(); err != nil {
		return Feature{}, err
	}
	f := Feature{ID: uuid.NewString(), Name: in.Name, Description: in.Description, IconURL: in.IconURL}
	_, err := r.db.Exec(ctx, `
		INSERT INTO features (id, name, description, icon_url)
		VALUES ($1,$2,$3,$4)
	`, f.ID, f.Name, f.Description, f.IconURL)
	if err != nil {
		return Feature{}, db.Translate(err, "feature")
	}
	return f, nil
}

func (r *Repository) UpdateFeature(ctx context.Context, id string, patch FeaturePatch) (Feature, error) {
	f, err := r.FeatureByID(ctx, id)
	if err != nil {
		return Feature{}, err
	}
	in := FeatureInput{Name: f.Name, Description: f.Description, IconURL: f.IconURL}
	setString(&in.Name, patch.Name)
	setString(&in.Description, patch.Description)
	setString(&in.IconURL, patch.IconURL)
	if err := in.Validate(); err != nil {
		return Feature{}, err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE features SET name=$2, description=$3, icon_url=$4
		WHERE id=$1
	`, id, in.Name, in.Description, in.IconURL)
	if err != nil {
		return Feature{}, db.Translate(err, "feature")
	}
	if tag.RowsAffected() == 0 {
		return Feature{}, apperr.NotFound("feature %s not found", id)
	}
	return Feature{ID: id, Name: in.Name, Description: in.Description, IconURL: in.IconURL}, nil
}

func (r *Repository) DeleteFeature(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM features WHERE id=$1`, id)
	if err != nil {
		return db.Translate(err, "feature")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("feature %s not found", id)
	}
	return nil
}

// ParkIDsForFeature lists parks currently linked to a feature.
func (r *Repository) ParkIDsForFeature(ctx context.Context, featureID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT park_id FROM park_features WHERE feature_id=$1`, featureID)
	if err != nil {
		return nil, db.Translate(err, "park feature")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, db.Translate(err, "park feature")
		}
		ids = append(ids, id)
	}
	return ids, db.Translate(rows.Err(), "park feature")
}

func findPark(ctx context.Context, q db.Querier, id string) (Park, error) {
	p, err := scanPark(q.QueryRow(ctx, `SELECT `+parkColumns+` FROM parks p WHERE p.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Park{}, apperr.NotFound("park %s not found", id)
		}
		return Park{}, db.Translate(err, "park")
	}
	parks := []Park{p}
	if err := attachFeatures(ctx, q, parks); err != nil {
		return Park{}, err
	}
	return parks[0], nil
}

func scanPark(row pgx.Row) (Park, error) {
	var p Park
	var parkType, status string
	var hours []byte
	var avg *float64
	var count int64
	err := row.Scan(&p.ID, &p.Name, &p.Description, &parkType, &status, &p.Address, &p.City, &p.State, &p.Country,
		&p.PostalCode, &p.Latitude, &p.Longitude, &p.IsFree, &hours, &p.WebsiteURL,
		&p.PhoneNumber, &p.Email, &p.Tags, &p.CreatedAt, &p.UpdatedAt, &avg, &count)
	if err != nil {
		return Park{}, err
	}
	p.ParkType = ParkType(parkType)
	p.Status = Status(status)
	p.AverageRating = avg
	p.RatingCount = int(count)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &p.OpeningHours); err != nil {
			return Park{}, fmt.Errorf("decode opening_hours: %w", err)
		}
	}
	return p, nil
}

func attachFeatures(ctx context.Context, q db.Querier, parks []Park) error {
	if len(parks) == 0 {
		return nil
	}
	ids := make([]string, len(parks))
	for i := range parks {
		ids[i] = parks[i].ID
	}
	byPark, err := featuresFor(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range parks {
		parks[i].Features = byPark[parks[i].ID]
		if parks[i].Features == nil {
			parks[i].Features = []Feature{}
		}
	}
	return nil
}

func featuresFor(ctx context.Context, q db.Querier, parkIDs []string) (map[string][]Feature, error) {
	rows, err := q.Query(ctx, `
		SELECT pf.park_id, f.id, f.name, f.description, f.icon_url
		FROM park_features pf
		JOIN features f ON f.id = pf.feature_id
		WHERE pf.park_id = ANY($1)
		ORDER BY f.name
	`, parkIDs)
	if err != nil {
		return nil, db.Translate(err, "feature")
	}
	defer rows.Close()

	out := make(map[string][]Feature, len(parkIDs))
	for rows.Next() {
		var parkID string
		var f Feature
		if err := rows.Scan(&parkID, &f.ID, &f.Name, &f.Description, &f.IconURL); err != nil {
			return nil, db.Translate(err, "feature")
		}
		out[parkID] = append(out[parkID], f)
	}
	return out, db.Translate(rows.Err(), "feature")
}

func linkFeatures(ctx context.Context, q db.Querier, parkID string, featureIDs []string) error {
	for _, fid := range featureIDs {
		_, err := q.Exec(ctx, `
			INSERT INTO park_features (park_id, feature_id)
			VALUES ($1,$2)
			ON CONFLICT DO NOTHING
		`, parkID, fid)
		if err != nil {
			return db.Translate(err, "feature "+fid)
		}
	}
	return nil
}

func replaceFeatures(ctx context.Context, q db.Querier, parkID string, featureIDs []string) error {
	if _, err := q.Exec(ctx, `DELETE FROM park_features WHERE park_id=$1`, parkID); err != nil {
		return db.Translate(err, "park feature")
	}
	return linkFeatures(ctx, q, parkID, featureIDs)
}

func parkFromInput(id string, in ParkInput) Park {
	return Park{
		ID:           id,
		Name:         in.Name,
		Description:  in.Description,
		ParkType:     in.ParkType,
		Status:       in.Status,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
		PostalCode:   in.PostalCode,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		IsFree:       in.IsFree,
		OpeningHours: in.OpeningHours,
		WebsiteURL:   in.WebsiteURL,
		PhoneNumber:  in.PhoneNumber,
		Email:        in.Email,
		Tags:         in.Tags,
	}
}

func hoursJSON(h OpeningHours) []byte {
	if len(h) == 0 {
		return nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil
	}
	return b
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildWhere renders f as a WHERE clause with positional arguments.
func buildWhere(f Filter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if f.ParkType != "" {
		conds = append(conds, fmt.Sprintf("p.park_type = $%d", arg(string(f.ParkType))))
	}
	if f.Status != "" {
		conds = append(conds, fmt.Sprintf("p.status = $%d", arg(string(f.Status))))
	}
	if f.City != "" {
		conds = append(conds, fmt.Sprintf("p.city ILIKE '%%' || $%d || '%%'", arg(likeEscaper.Replace(f.City))))
	}
	if f.Country != "" {
		conds = append(conds, fmt.Sprintf("p.country ILIKE '%%' || $%d || '%%'", arg(likeEscaper.Replace(f.Country))))
	}
	if f.IsFree != nil {
		conds = append(conds, fmt.Sprintf("p.is_free = $%d", arg(*f.IsFree)))
	}
	if f.Tag != "" {
		conds = append(conds, fmt.Sprintf("$%d = ANY(p.tags)", arg(strings.ToLower(strings.TrimSpace(f.Tag)))))
	}
	if f.Query != "" {
		n := arg(likeEscaper.Replace(f.Query))
		conds = append(conds, fmt.Sprintf(
			"(p.name ILIKE '%%' || $%[1]d || '%%' OR p.description ILIKE '%%' || $%[1]d || '%%' OR p.city ILIKE '%%' || $%[1]d || '%%' OR p.address ILIKE '%%' || $%[1]d || '%%')", n))
	}
	if f.Near != nil {
		box := geo.BoundingBox(f.Near.Lat, f.Near.Lng, f.Near.RadiusKm)
		conds = append(conds, fmt.Sprintf("p.latitude BETWEEN $%d AND $%d AND p.longitude BETWEEN $%d AND $%d",
			arg(box.MinLat), arg(box.MaxLat), arg(box.MinLng), arg(box.MaxLng)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
