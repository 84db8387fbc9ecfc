package itglue

import (
	"context"

	"github.com/deskhound/itglue-go/pkg/client"
)

// Location is a physical location belonging to an organization.
type Location struct {
	ID             string `json:"-"`
	Name           string `json:"name"`
	Address1       string `json:"address-1"`
	Address2       string `json:"address-2"`
	City           string `json:"city"`
	PostalCode     string `json:"postal-code"`
	Phone          string `json:"phone"`
	Primary        bool   `json:"primary"`
	OrganizationID int    `json:"organization-id"`
}

// LocationsService operates on /locations and the organization-scoped
// relationship path.
type LocationsService struct {
	client *Client
}

// List retrieves locations. With a non-empty organizationID it walks the
// organization's relationship path; otherwise it lists every location.
func (s *LocationsService) List(ctx context.Context, organizationID string) ([]Location, error) {
	path := "/locations"
	if organizationID != "" {
		path = "/organizations/" + organizationID + "/relationships/locations"
	}

	res, err := s.client.fetcher.FetchAll(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	locations := make([]Location, 0, len(res.Records))
	for _, rec := range res.Records {
		var loc Location
		if err := rec.DecodeAttributes(&loc); err != nil {
			return nil, err
		}
		loc.ID = rec.ID
		locations = append(locations, loc)
	}
	return locations, nil
}

// Get retrieves one location by ID.
func (s *LocationsService) Get(ctx context.Context, id string) (*Location, error) {
	doc, err := s.client.api.Get(ctx, "/locations/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var loc Location
	if err := rec.DecodeAttributes(&loc); err != nil {
		return nil, err
	}
	loc.ID = rec.ID
	return &loc, nil
}

// FindByName lists the scope's locations and filters them client-side by
// name pattern.
func (s *LocationsService) FindByName(ctx context.Context, organizationID, pattern string) ([]Location, error) {
	locations, err := s.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	matched := locations[:0:0]
	for _, loc := range locations {
		if matchName(loc.Name, pattern) {
			matched = append(matched, loc)
		}
	}
	return matched, nil
}
