package parks

import "time"

type ParkType string

const (
	TypeStreet ParkType = "street"
	TypeVert   ParkType = "vert"
	TypeBowl   ParkType = "bowl"
	TypePlaza  ParkType = "plaza"
	TypeDIY    ParkType = "diy"
	TypeIndoor ParkType = "indoor"
	TypeHybrid ParkType = "hybrid"
)

var parkTypes = []ParkType{TypeStreet, TypeVert, TypeBowl, TypePlaza, TypeDIY, TypeIndoor, TypeHybrid}

func (t ParkType) Valid() bool {
	for _, v := range parkTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive            Status = "active"
	StatusClosedTemporarily Status = "closed_temporarily"
	StatusClosedPermanently Status = "closed_permanently"
	StatusUnderConstruction Status = "under_construction"
	StatusPlanned           Status = "planned"
)

var statuses = []Status{StatusActive, StatusClosedTemporarily, StatusClosedPermanently, StatusUnderConstruction, StatusPlanned}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// OpeningHours maps a day key ("mon", "tue", ... or "holidays") to a free-form schedule.
type OpeningHours map[string]string

type Park struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	ParkType      ParkType     `json:"park_type"`
	Status        Status       `json:"status"`
	Address       string       `json:"address"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	Country       string       `json:"country"`
	PostalCode    string       `json:"postal_code"`
	Latitude      *float64     `json:"latitude"`
	Longitude     *float64     `json:"longitude"`
	IsFree        bool         `json:"is_free"`
	OpeningHours  OpeningHours `json:"opening_hours,omitempty"`
	WebsiteURL    string       `json:"website_url"`
	PhoneNumber   string       `json:"phone_number"`
	Email         string       `json:"email"`
	Tags          []string     `json:"tags"`
	Features      []Feature    `json:"features"`
	AverageRating *float64     `json:"average_rating"`
	RatingCount   int          `json:"rating_count"`
	DistanceKm    *float64     `json:"distance_km,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type Feature struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
}

type Photo struct {
	ID         string    `json:"id"`
	ParkID     string    `json:"park_id"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Rating struct {
	ID        string    `json:"id"`
	ParkID    string    `json:"park_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParkInput carries every writable field of a new park.
type ParkInput struct {
	Name         string
	Description  string
	ParkType     ParkType
	Status       Status
	Address      string
	City         string
	State        string
	Country      string
	PostalCode   string
	Latitude     *float64
	Longitude    *float64
	IsFree       bool
	OpeningHours OpeningHours
	WebsiteURL   string
	PhoneNumber  string
	Email        string
	Tags         []string
	FeatureIDs   []string
}

// ParkPatch is a partial update; nil fields are left untouched.
type ParkPatch struct {
	Name         *string
	Description  *string
	ParkType     *ParkType
	Status       *Status
	Address      *string
	City         *string
	State        *string
	Country      *string
	PostalCode   *string
	Latitude     *float64
	Longitude    *float64
	IsFree       *bool
	OpeningHours OpeningHours
	WebsiteURL   *string
	PhoneNumber  *string
	Email        *string
	Tags         []string
	FeatureIDs   []string

	// SetFeatures distinguishes "feature_ids omitted" from "feature_ids: []".
	SetFeatures bool
}

// Filter narrows a park listing. Empty fields do not filter.
type Filter struct {
	ParkType ParkType
	Status   Status
	City     string
	Country  string
	IsFree   *bool
	Tag      string
	Query    string
	Near     *Near
}

// Near restricts results to a radius around a point.
type Near struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

type Page struct {
	Items    []Park `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Pages    int    `json:"pages"`
}

type FeatureInput struct {
	Name        string
	Description string
	IconURL     string
}

type FeaturePatch struct {
	Name        *string
	Description *string
	IconURL     *string
}

type PhotoInput struct {
	URL       string
	Caption   string
	IsPrimary bool
}

// FeatureOp selects link or unlink in ManageFeature.
type FeatureOp int

const (
	OpLink FeatureOp = iota
	OpUnlink
)
