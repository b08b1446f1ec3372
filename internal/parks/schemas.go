package parks

type CreateParkRequest struct {
	Name         string            `json:"name" validate:"required,max=100"`
	Description  string            `json:"description" validate:"max=5000"`
	ParkType     string            `json:"park_type" validate:"required,oneof=street vert bowl plaza diy indoor hybrid"`
	Status       string            `json:"status" validate:"omitempty,oneof=active closed_temporarily closed_permanently under_construction planned"`
	Address      string            `json:"address" validate:"max=255"`
	City         string            `json:"city" validate:"max=100"`
	State        string            `json:"state" validate:"max=100"`
	Country      string            `json:"country" validate:"max=100"`
	PostalCode   string            `json:"postal_code" validate:"max=20"`
	Latitude     *float64          `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64          `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsFree       *bool             `json:"is_free"`
	OpeningHours map[string]string `json:"opening_hours"`
	WebsiteURL   string            `json:"website_url" validate:"omitempty,url,max=255"`
	PhoneNumber  string            `json:"phone_number" validate:"max=20"`
	Email        string            `json:"email" validate:"omitempty,email,max=100"`
	Tags         []string          `json:"tags" validate:"max=20,dive,max=50"`
	FeatureIDs   []string          `json:"feature_ids" validate:"dive,uuid"`
}

func (r CreateParkRequest) Input() ParkInput {
	isFree := true
	if r.IsFree != nil {
		isFree = *r.IsFree
	}
	return ParkInput{
		Name:         r.Name,
		Description:  r.Description,
		ParkType:     ParkType(r.ParkType),
		Status:       Status(r.Status),
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Country:      r.Country,
		PostalCode:   r.PostalCode,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		IsFree:       isFree,
		OpeningHours: r.OpeningHours,
		WebsiteURL:   r.WebsiteURL,
		PhoneNumber:  r.PhoneNumber,
		Email:        r.Email,
		Tags:         r.Tags,
		FeatureIDs:   r.FeatureIDs,
	}
}

// UpdateParkRequest uses pointers so absent fields stay untouched.
type UpdateParkRequest struct {
	Name         *string           `json:"name" validate:"omitempty,min=1,max=100"`
	Description  *string           `json:"description" validate:"omitempty,max=5000"`
	ParkType     *string           `json:"park_type" validate:"omitempty,oneof=street vert bowl plaza diy indoor hybrid"`
	Status       *string           `json:"status" validate:"omitempty,oneof=active closed_temporarily closed_permanently under_construction planned"`
	Address      *string           `json:"address" validate:"omitempty,max=255"`
	City         *string           `json:"city" validate:"omitempty,max=100"`
	State        *string           `json:"state" validate:"omitempty,max=100"`
	Country      *string           `json:"country" validate:"omitempty,max=100"`
	PostalCode   *string           `json:"postal_code" validate:"omitempty,max=20"`
	Latitude     *float64          `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64          `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsFree       *bool             `json:"is_free"`
	OpeningHours map[string]string `json:"opening_hours"`
	WebsiteURL   *string           `json:"website_url" validate:"omitempty,url,max=255"`
	PhoneNumber  *string           `json:"phone_number" validate:"omitempty,max=20"`
	Email        *string           `json:"email" validate:"omitempty,email,max=100"`
	Tags         *[]string         `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	FeatureIDs   *[]string         `json:"feature_ids" validate:"omitempty,dive,uuid"`
}

func (r UpdateParkRequest) Patch() ParkPatch {
	patch := ParkPatch{
		Name:         r.Name,
		Description:  r.Description,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Country:      r.Country,
		PostalCode:   r.PostalCode,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		IsFree:       r.IsFree,
		OpeningHours: r.OpeningHours,
		WebsiteURL:   r.WebsiteURL,
		PhoneNumber:  r.PhoneNumber,
		Email:        r.Email,
	}
	if r.ParkType != nil {
		t := ParkType(*r.ParkType)
		patch.ParkType = &t
	}
	if r.Status != nil {
		st := Status(*r.Status)
		patch.Status = &st
	}
	if r.Tags != nil {
		patch.Tags = append([]string{}, *r.Tags...)
	}
	if r.FeatureIDs != nil {
		patch.SetFeatures = true
		patch.FeatureIDs = *r.FeatureIDs
	}
	return patch
}

type ListParksQuery struct {
	ParkType string   `query:"park_type" json:"park_type" validate:"omitempty,oneof=street vert bowl plaza diy indoor hybrid"`
	Status   string   `query:"status" json:"status" validate:"omitempty,oneof=active closed_temporarily closed_permanently under_construction planned"`
	City     string   `query:"city" json:"city" validate:"max=100"`
	Country  string   `query:"country" json:"country" validate:"max=100"`
	IsFree   *bool    `query:"is_free" json:"is_free"`
	Tag      string   `query:"tag" json:"tag" validate:"max=50"`
	Q        string   `query:"q" json:"q" validate:"max=100"`
	Lat      *float64 `query:"lat" json:"lat" validate:"required_with=Lng,omitempty,gte=-90,lte=90"`
	Lng      *float64 `query:"lng" json:"lng" validate:"required_with=Lat,omitempty,gte=-180,lte=180"`
	RadiusKm float64  `query:"radius_km" json:"radius_km" validate:"gte=0,lte=1000"`
	Page     int      `query:"page" json:"page" validate:"gte=0"`
	PageSize int      `query:"page_size" json:"page_size" validate:"gte=0"`
}

func (q ListParksQuery) Filter() Filter {
	f := Filter{
		ParkType: ParkType(q.ParkType),
		Status:   Status(q.Status),
		City:     q.City,
		Country:  q.Country,
		IsFree:   q.IsFree,
		Tag:      q.Tag,
		Query:    q.Q,
	}
	if q.Lat != nil && q.Lng != nil {
		f.Near = &Near{Lat: *q.Lat, Lng: *q.Lng, RadiusKm: q.RadiusKm}
	}
	return f
}

type RatingRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"max=2000"`
}

type PhotoRequest struct {
	URL       string `json:"url" validate:"required,url,max=255"`
	Caption   string `json:"caption" validate:"max=255"`
	IsPrimary bool   `json:"is_primary"`
}

func (r PhotoRequest) Input() PhotoInput {
	return PhotoInput{URL: r.URL, Caption: r.Caption, IsPrimary: r.IsPrimary}
}

type CreateFeatureRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	IconURL     string `json:"icon_url" validate:"omitempty,url,max=255"`
}

func (r CreateFeatureRequest) Input() FeatureInput {
	return FeatureInput{Name: r.Name, Description: r.Description, IconURL: r.IconURL}
}

type UpdateFeatureRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IconURL     *string `json:"icon_url" validate:"omitempty,url,max=255"`
}

func (r UpdateFeatureRequest) Patch() FeaturePatch {
	return FeaturePatch{Name: r.Name, Description: r.Description, IconURL: r.IconURL}
}
