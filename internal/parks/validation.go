package parks

import (
	"strings"

	"github.com/cj-tomlin/skate-project/internal/apperr"
)

const (
	maxNameLen = 100
	minRating  = 1
	maxRating  = 5
)

// normalize fills defaults and cleans free-form fields in place.
func (in *ParkInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = StatusActive
	}
	in.Tags = normalizeTags(in.Tags)
}

// Validate checks the rules shared by create and update.
func (in ParkInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("name is required")
	}
	if len(name) > maxNameLen {
		return apperr.Validation("name must be at most %d characters", maxNameLen)
	}
	if !in.ParkType.Valid() {
		return apperr.Validation("park_type %q is not one of: street vert bowl plaza diy indoor hybrid", in.ParkType)
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperr.Validation("status %q is not one of: active closed_temporarily closed_permanently under_construction planned", in.Status)
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return apperr.Validation("latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return apperr.Validation("longitude must be between -180 and 180")
	}
	return nil
}

// merge applies patch over an existing park's writable fields.
func merge(p Park, patch ParkPatch) ParkInput {
	in := ParkInput{
		Name:         p.Name,
		Description:  p.Description,
		ParkType:     p.ParkType,
		Status:       p.Status,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		Country:      p.Country,
		PostalCode:   p.PostalCode,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		IsFree:       p.IsFree,
		OpeningHours: p.OpeningHours,
		WebsiteURL:   p.WebsiteURL,
		PhoneNumber:  p.PhoneNumber,
		Email:        p.Email,
		Tags:         p.Tags,
	}
	setString(&in.Name, patch.Name)
	setString(&in.Description, patch.Description)
	setString(&in.Address, patch.Address)
	setString(&in.City, patch.City)
	setString(&in.State, patch.State)
	setString(&in.Country, patch.Country)
	setString(&in.PostalCode, patch.PostalCode)
	setString(&in.WebsiteURL, patch.WebsiteURL)
	setString(&in.PhoneNumber, patch.PhoneNumber)
	setString(&in.Email, patch.Email)
	if patch.ParkType != nil {
		in.ParkType = *patch.ParkType
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
	if patch.Latitude != nil {
		in.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		in.Longitude = patch.Longitude
	}
	if patch.IsFree != nil {
		in.IsFree = *patch.IsFree
	}
	if patch.OpeningHours != nil {
		in.OpeningHours = patch.OpeningHours
	}
	if patch.Tags != nil {
		in.Tags = patch.Tags
	}
	return in
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func validateRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return apperr.Validation("rating must be between %d and %d", minRating, maxRating)
	}
	return nil
}

func (in *FeatureInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if len(in.Name) > maxNameLen {
		return apperr.Validation("name must be at most %d characters", maxNameLen)
	}
	return nil
}

func (in *PhotoInput) Validate() error {
	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" {
		return apperr.Validation("url is required")
	}
	return nil
}
