package parks

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cj-tomlin/skate-project/internal/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

const (
	parkID    = "6f1c1a52-1d7e-4a39-9a43-2f1f6d1b0a01"
	parkID2   = "6f1c1a52-1d7e-4a39-9a43-2f1f6d1b0a02"
	featureID = "9b2d8e10-5c1a-4f2e-8f61-7d3b2c1a0b01"
	photoID   = "c3e4f5a6-0b1c-4d2e-9f3a-4b5c6d7e8f01"
	ratingID  = "d4e5f6a7-1b2c-4d3e-8f4a-5b6c7d8e9f01"
	userID    = "e5f6a7b8-2c3d-4e4f-9a5b-6c7d8e9f0a01"
)

var (
	parkCols = []string{
		"id", "name", "description", "park_type", "status", "address", "city", "state", "country",
		"postal_code", "latitude", "longitude", "is_free", "opening_hours", "website_url",
		"phone_number", "email", "tags", "created_at", "updated_at", "average_rating", "rating_count",
	}
	parkFeatureCols = []string{"park_id", "id", "name", "description", "icon_url"}
	featureCols     = []string{"id", "name", "description", "icon_url"}
	ratingCols      = []string{"id", "park_id", "user_id", "rating", "review", "created_at", "updated_at"}
	photoCols       = []string{"id", "park_id", "url", "caption", "is_primary", "uploaded_by", "uploaded_at"}

	fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func ptr[T any](v T) *T { return &v }

func parkRow(id, name string) []any {
	return []any{
		id, name, "", "street", "active", "", "Barcelona", "", "Spain",
		"", nil, nil, true, nil, "",
		"", "", []string{}, fixedTime, fixedTime, nil, int64(0),
	}
}

func expectFindPark(mock pgxmock.PgxPoolIface, id, name string) {
	mock.ExpectQuery(`FROM parks p WHERE p\.id`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(parkCols).AddRow(parkRow(id, name)...))
	mock.ExpectQuery(`FROM park_features pf`).
		WithArgs([]string{id}).
		WillReturnRows(pgxmock.NewRows(parkFeatureCols))
}

func expectMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO parks`).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedTime, fixedTime))
		mock.ExpectCommit()
	}

	a, err := repo.Create(context.Background(), ParkInput{Name: "  Mackba ", ParkType: TypePlaza, Tags: []string{"Ledges", "ledges", ""}})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := repo.Create(context.Background(), ParkInput{Name: "Parallel", ParkType: TypeStreet})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %s", a.ID)
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", a.ID)
	}
	if a.Name != "Mackba" || a.Status != StatusActive {
		t.Fatalf("expected normalized input, got %+v", a)
	}
	if len(a.Tags) != 1 || a.Tags[0] != "ledges" {
		t.Fatalf("expected deduplicated tags, got %v", a.Tags)
	}
	if a.Features == nil || len(a.Features) != 0 {
		t.Fatalf("expected empty feature list, got %v", a.Features)
	}
	expectMet(t, mock)
}

func TestCreateRejectsInvalidInputWithoutWriting(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	cases := []ParkInput{
		{Name: "", ParkType: TypeBowl},
		{Name: strings.Repeat("x", 101), ParkType: TypeBowl},
		{Name: "Skatepark", ParkType: "mega_ramp"},
		{Name: "Skatepark", ParkType: TypeBowl, Status: "demolished"},
		{Name: "Skatepark", ParkType: TypeBowl, Latitude: ptr(91.0)},
		{Name: "Skatepark", ParkType: TypeBowl, Longitude: ptr(-181.0)},
	}
	for _, in := range cases {
		_, err := repo.Create(context.Background(), in)
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("%+v: expected validation error, got %v", in, err)
		}
	}
	expectMet(t, mock)
}

func TestCreateLinksFeatures(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO parks`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedTime, fixedTime))
	mock.ExpectExec(`INSERT INTO park_features`).
		WithArgs(pgxmock.AnyArg(), featureID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`FROM park_features pf`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(parkFeatureCols).AddRow(parkID, featureID, "Bowl", "", ""))
	mock.ExpectCommit()

	p, err := repo.Create(context.Background(), ParkInput{Name: "Forum", ParkType: TypeBowl, FeatureIDs: []string{featureID}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(p.Features) != 1 || p.Features[0].ID != featureID {
		t.Fatalf("expected linked feature, got %+v", p.Features)
	}
	expectMet(t, mock)
}

func TestCreateUnknownFeatureRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO parks`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedTime, fixedTime))
	mock.ExpectExec(`INSERT INTO park_features`).
		WithArgs(pgxmock.AnyArg(), featureID).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), ParkInput{Name: "Forum", ParkType: TypeBowl, FeatureIDs: []string{featureID}})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	expectMet(t, mock)
}

func TestFindByIDLoadsFeaturesAndRating(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	row := parkRow(parkID, "Southbank")
	row[10] = ptr(51.5068)
	row[11] = ptr(-0.1167)
	row[13] = []byte(`{"mon":"9-17"}`)
	row[17] = []string{"undercroft"}
	row[20] = ptr(4.5)
	row[21] = int64(2)

	mock.ExpectQuery(`FROM parks p WHERE p\.id`).
		WithArgs(parkID).
		WillReturnRows(pgxmock.NewRows(parkCols).AddRow(row...))
	mock.ExpectQuery(`FROM park_features pf`).
		WithArgs([]string{parkID}).
		WillReturnRows(pgxmock.NewRows(parkFeatureCols).
			AddRow(parkID, featureID, "Ledge", "waist high", "").
			AddRow(parkID, "9b2d8e10-5c1a-4f2e-8f61-7d3b2c1a0b02", "Stairs", "", ""))

	p, err := repo.FindByID(context.Background(), parkID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Latitude == nil || *p.Latitude != 51.5068 {
		t.Fatalf("unexpected latitude %v", p.Latitude)
	}
	if p.OpeningHours["mon"] != "9-17" {
		t.Fatalf("unexpected opening hours %v", p.OpeningHours)
	}
	if p.AverageRating == nil || *p.AverageRating != 4.5 || p.RatingCount != 2 {
		t.Fatalf("unexpected rating aggregate %v/%d", p.AverageRating, p.RatingCount)
	}
	if len(p.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(p.Features))
	}
	expectMet(t, mock)
}

func TestFindByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectQuery(`FROM parks p WHERE p\.id`).WithArgs(parkID).WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), parkID)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPageBeyondEndIsEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM parks p`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	items, total, err := repo.List(context.Background(), Filter{}, 5, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 || total != 3 {
		t.Fatalf("expected empty page with total 3, got %d items total %d", len(items), total)
	}
	expectMet(t, mock)
}

func TestListHugePageDoesNotOverflow(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM parks p`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	items, total, err := repo.List(context.Background(), Filter{}, math.MaxInt, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 || total != 3 {
		t.Fatalf("expected empty page with total 3, got %d items total %d", len(items), total)
	}
	expectMet(t, mock)
}

func TestListCapsPageSizeAndOrders(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM parks p WHERE p\.park_type`).
		WithArgs("bowl").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`ORDER BY p\.created_at, p\.id LIMIT \$2 OFFSET \$3`).
		WithArgs("bowl", 100, 0).
		WillReturnRows(pgxmock.NewRows(parkCols).
			AddRow(parkRow(parkID, "First")...).
			AddRow(parkRow(parkID2, "Second")...))
	mock.ExpectQuery(`FROM park_features pf`).
		WithArgs([]string{parkID, parkID2}).
		WillReturnRows(pgxmock.NewRows(parkFeatureCols).AddRow(parkID2, featureID, "Bowl", "", ""))

	items, total, err := repo.List(context.Background(), Filter{ParkType: TypeBowl}, 1, 500)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("unexpected result %d/%d", len(items), total)
	}
	if items[0].Name != "First" || len(items[0].Features) != 0 || len(items[1].Features) != 1 {
		t.Fatalf("unexpected items %+v", items)
	}
	expectMet(t, mock)
}

func TestListNearComputesDistance(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	row := parkRow(parkID, "Macba")
	row[10] = ptr(41.3833)
	row[11] = ptr(2.1667)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM parks p WHERE p\.latitude BETWEEN`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`LIMIT \$5 OFFSET \$6`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 20, 0).
		WillReturnRows(pgxmock.NewRows(parkCols).AddRow(row...))
	mock.ExpectQuery(`FROM park_features pf`).
		WithArgs([]string{parkID}).
		WillReturnRows(pgxmock.NewRows(parkFeatureCols))

	items, _, err := repo.List(context.Background(), Filter{Near: &Near{Lat: 41.3851, Lng: 2.1734, RadiusKm: 5}}, 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].DistanceKm == nil || *items[0].DistanceKm > 1 {
		t.Fatalf("expected distance under 1km, got %+v", items)
	}
	expectMet(t, mock)
}

func TestBuildWhere(t *testing.T) {
	free := false
	where, args := buildWhere(Filter{
		ParkType: TypeDIY,
		City:     "bar_",
		IsFree:   &free,
		Tag:      " Ledges ",
		Query:    "macba",
	})

	want := []string{
		"p.park_type = $1",
		"p.city ILIKE '%' || $2 || '%'",
		"p.is_free = $3",
		"$4 = ANY(p.tags)",
		"p.name ILIKE '%' || $5 || '%' OR p.description ILIKE '%' || $5 || '%'",
	}
	for _, w := range want {
		if !strings.Contains(where, w) {
			t.Fatalf("expected %q in %q", w, where)
		}
	}
	if len(args) != 5 || args[1] != `bar\_` || args[3] != "ledges" {
		t.Fatalf("unexpected args %v", args)
	}

	if where, args := buildWhere(Filter{}); where != "" || args != nil {
		t.Fatalf("expected empty clause, got %q %v", where, args)
	}
}

func TestUpdateOverwritesOnlySuppliedFields(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)
	later := fixedTime.Add(time.Hour)

	mock.ExpectBegin()
	expectFindPark(mock, parkID, "Old name")
	mock.ExpectQuery(`UPDATE parks`).
		WithArgs(parkID, "New name", "", "street", "closed_temporarily", "", "Barcelona", "", "Spain", "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), true, pgxmock.AnyArg(), "", "", "", []string{}).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(later))
	mock.ExpectCommit()

	status := StatusClosedTemporarily
	p, err := repo.Update(context.Background(), parkID, ParkPatch{Name: ptr("New name"), Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Name != "New name" || p.Status != StatusClosedTemporarily || p.City != "Barcelona" {
		t.Fatalf("unexpected park %+v", p)
	}
	if !p.UpdatedAt.Equal(later) || !p.CreatedAt.Equal(fixedTime) {
		t.Fatalf("unexpected timestamps %v %v", p.CreatedAt, p.UpdatedAt)
	}
	expectMet(t, mock)
}

func TestUpdateReplacesFeatures(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectBegin()
	expectFindPark(mock, parkID, "Forum")
	mock.ExpectQuery(`UPDATE parks`).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(fixedTime))
	mock.ExpectExec(`DELETE FROM park_features WHERE park_id`).
		WithArgs(parkID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectQuery(`FROM park_features pf`).
		WithArgs([]string{parkID}).
		WillReturnRows(pgxmock.NewRows(parkFeatureCols))
	mock.ExpectCommit()

	p, err := repo.Update(context.Background(), parkID, ParkPatch{SetFeatures: true, FeatureIDs: []string{}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Features == nil || len(p.Features) != 0 {
		t.Fatalf("expected cleared features, got %v", p.Features)
	}
	expectMet(t, mock)
}

func TestUpdateMissingParkRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM parks p WHERE p\.id`).WithArgs(parkID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), parkID, ParkPatch{Name: ptr("x")})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	expectMet(t, mock)
}

func TestDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectExec(`DELETE FROM parks WHERE id`).WithArgs(parkID).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM parks WHERE id`).WithArgs(parkID).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), parkID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(context.Background(), parkID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	expectMet(t, mock)
}

func TestAddFeatureIsIdempotent(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectExec(`ON CONFLICT DO NOTHING`).
		WithArgs(parkID, featureID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`ON CONFLICT DO NOTHING`).
		WithArgs(parkID, featureID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(`DELETE FROM park_features WHERE park_id=\$1 AND feature_id=\$2`).
		WithArgs(parkID, featureID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	for i := 0; i < 2; i++ {
		if err := repo.AddFeature(context.Background(), parkID, featureID); err != nil {
			t.Fatalf("link %d: %v", i, err)
		}
	}
	if err := repo.RemoveFeature(context.Background(), parkID, featureID); err != nil {
		t.Fatalf("unlink absent: %v", err)
	}
	expectMet(t, mock)
}

func TestAddRatingUpserts(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	for _, score := range []int{3, 5} {
		mock.ExpectQuery(`ON CONFLICT \(park_id, user_id\) DO UPDATE`).
			WithArgs(pgxmock.AnyArg(), parkID, userID, score, "").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(ratingID, fixedTime, time.Now()))
	}

	first, err := repo.AddRating(context.Background(), parkID, userID, 3, "")
	if err != nil {
		t.Fatalf("first rating: %v", err)
	}
	second, err := repo.AddRating(context.Background(), parkID, userID, 5, "")
	if err != nil {
		t.Fatalf("second rating: %v", err)
	}
	if first.ID != second.ID || second.Rating != 5 {
		t.Fatalf("expected the same rating row updated, got %+v and %+v", first, second)
	}
	expectMet(t, mock)
}

func TestAddRatingOutOfRange(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	for _, score := range []int{0, 6, -1} {
		if _, err := repo.AddRating(context.Background(), parkID, userID, score, ""); apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("rating %d: expected validation error, got %v", score, err)
		}
	}
	expectMet(t, mock)
}

func TestRatings(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectQuery(`FROM park_ratings WHERE park_id`).
		WithArgs(parkID).
		WillReturnRows(pgxmock.NewRows(ratingCols).AddRow(ratingID, parkID, userID, 4, "smooth", fixedTime, fixedTime))
	mock.ExpectQuery(`FROM park_ratings WHERE id`).
		WithArgs(ratingID).
		WillReturnError(pgx.ErrNoRows)

	ratings, err := repo.Ratings(context.Background(), parkID)
	if err != nil || len(ratings) != 1 || ratings[0].Review != "smooth" {
		t.Fatalf("unexpected ratings %v %v", ratings, err)
	}
	if _, err := repo.RatingByID(context.Background(), ratingID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	expectMet(t, mock)
}

func TestAddPrimaryPhotoDemotesPrevious(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE park_photos SET is_primary=FALSE WHERE park_id`).
		WithArgs(parkID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO park_photos`).
		WithArgs(pgxmock.AnyArg(), parkID, "https://img.example/a.jpg", "", true, userID).
		WillReturnRows(pgxmock.NewRows([]string{"uploaded_at"}).AddRow(fixedTime))
	mock.ExpectCommit()

	photo, err := repo.AddPhoto(context.Background(), parkID, userID, PhotoInput{URL: "https://img.example/a.jpg", IsPrimary: true})
	if err != nil {
		t.Fatalf("add photo: %v", err)
	}
	if !photo.IsPrimary || photo.UploadedBy != userID {
		t.Fatalf("unexpected photo %+v", photo)
	}
	expectMet(t, mock)
}

func TestSetPrimaryPhotoMissingRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE park_photos SET is_primary=FALSE`).
		WithArgs(parkID, photoID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE park_photos SET is_primary=TRUE`).
		WithArgs(photoID, parkID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	if err := repo.SetPrimaryPhoto(context.Background(), parkID, photoID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	expectMet(t, mock)
}

func TestPhotos(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectQuery(`FROM park_photos WHERE park_id`).
		WithArgs(parkID).
		WillReturnRows(pgxmock.NewRows(photoCols).
			AddRow(photoID, parkID, "https://img.example/a.jpg", "", true, userID, fixedTime).
			AddRow("c3e4f5a6-0b1c-4d2e-9f3a-4b5c6d7e8f02", parkID, "https://img.example/b.jpg", "", false, "", fixedTime))
	mock.ExpectExec(`DELETE FROM park_photos`).WithArgs(photoID).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	photos, err := repo.Photos(context.Background(), parkID)
	if err != nil || len(photos) != 2 || !photos[0].IsPrimary {
		t.Fatalf("unexpected photos %v %v", photos, err)
	}
	if err := repo.DeletePhoto(context.Background(), photoID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	expectMet(t, mock)
}

func TestFeatureCRUD(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO features`).
		WithArgs(pgxmock.AnyArg(), "Bowl", "deep end", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO features`).
		WithArgs(pgxmock.AnyArg(), "Bowl", "", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(`SELECT id, name, description, icon_url FROM features WHERE id`).
		WithArgs(featureID).
		WillReturnRows(pgxmock.NewRows(featureCols).AddRow(featureID, "Bowl", "deep end", ""))
	mock.ExpectExec(`UPDATE features`).
		WithArgs(featureID, "Bowl", "kidney", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM features ORDER BY name`).
		WillReturnRows(pgxmock.NewRows(featureCols).AddRow(featureID, "Bowl", "kidney", ""))
	mock.ExpectExec(`DELETE FROM features`).WithArgs(featureID).WillReturnResult(pgxmock.NewResult("DELETE", 1))

	f, err := repo.CreateFeature(ctx, FeatureInput{Name: " Bowl ", Description: "deep end"})
	if err != nil || f.Name != "Bowl" {
		t.Fatalf("create feature: %+v %v", f, err)
	}
	if _, err := repo.CreateFeature(ctx, FeatureInput{Name: "Bowl"}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected duplicate to be a validation error, got %v", err)
	}
	updated, err := repo.UpdateFeature(ctx, featureID, FeaturePatch{Description: ptr("kidney")})
	if err != nil || updated.Description != "kidney" || updated.Name != "Bowl" {
		t.Fatalf("update feature: %+v %v", updated, err)
	}
	all, err := repo.Features(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("features: %v %v", all, err)
	}
	if err := repo.DeleteFeature(ctx, featureID); err != nil {
		t.Fatalf("delete feature: %v", err)
	}
	expectMet(t, mock)
}

func TestParkExists(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock, 100)

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(parkID).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(parkID2).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	if err := repo.ParkExists(context.Background(), parkID); err != nil {
		t.Fatalf("expected park to exist: %v", err)
	}
	if err := repo.ParkExists(context.Background(), parkID2); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	expectMet(t, mock)
}
