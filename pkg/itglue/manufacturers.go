package itglue

import (
	"context"

	"github.com/deskhound/itglue-go/pkg/client"
)

// Manufacturer is a hardware manufacturer.
type Manufacturer struct {
	ID        string `json:"-"`
	Name      string `json:"name"`
	CreatedAt string `json:"created-at"`
	UpdatedAt string `json:"updated-at"`
}

// ManufacturersService operates on /manufacturers.
type ManufacturersService struct {
	client *Client
}

// List retrieves every manufacturer.
func (s *ManufacturersService) List(ctx context.Context) ([]Manufacturer, error) {
	res, err := s.client.fetcher.FetchAll(ctx, "/manufacturers", nil)
	if err != nil {
		return nil, err
	}

	manufacturers := make([]Manufacturer, 0, len(res.Records))
	for _, rec := range res.Records {
		var m Manufacturer
		if err := rec.DecodeAttributes(&m); err != nil {
			return nil, err
		}
		m.ID = rec.ID
		manufacturers = append(manufacturers, m)
	}
	return manufacturers, nil
}

// Get retrieves one manufacturer by ID.
func (s *ManufacturersService) Get(ctx context.Context, id string) (*Manufacturer, error) {
	doc, err := s.client.api.Get(ctx, "/manufacturers/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var m Manufacturer
	if err := rec.DecodeAttributes(&m); err != nil {
		return nil, err
	}
	m.ID = rec.ID
	return &m, nil
}
