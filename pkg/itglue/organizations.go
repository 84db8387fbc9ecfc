package itglue

import (
	"context"

	"github.com/deskhound/itglue-go/pkg/client"
)

// Organization is an IT Glue organization.
type Organization struct {
	ID                   string `json:"-"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	OrganizationTypeID   int    `json:"organization-type-id"`
	OrganizationStatusID int    `json:"organization-status-id"`
	CreatedAt            string `json:"created-at"`
	UpdatedAt            string `json:"updated-at"`
}

// OrganizationsService operates on /organizations.
type OrganizationsService struct {
	client *Client
}

// List retrieves every organization.
func (s *OrganizationsService) List(ctx context.Context) ([]Organization, error) {
	res, err := s.client.fetcher.FetchAll(ctx, "/organizations", nil)
	if err != nil {
		return nil, err
	}

	orgs := make([]Organization, 0, len(res.Records))
	for _, rec := range res.Records {
		var org Organization
		if err := rec.DecodeAttributes(&org); err != nil {
			return nil, err
		}
		org.ID = rec.ID
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// Get retrieves one organization by ID.
func (s *OrganizationsService) Get(ctx context.Context, id string) (*Organization, error) {
	doc, err := s.client.api.Get(ctx, "/organizations/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var org Organization
	if err := rec.DecodeAttributes(&org); err != nil {
		return nil, err
	}
	org.ID = rec.ID
	return &org, nil
}

// FindByName fetches all organizations and filters them client-side by name
// pattern. An empty result is not an error.
func (s *OrganizationsService) FindByName(ctx context.Context, pattern string) ([]Organization, error) {
	orgs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := orgs[:0:0]
	for _, org := range orgs {
		if matchName(org.Name, pattern) {
			matched = append(matched, org)
		}
	}
	return matched, nil
}
