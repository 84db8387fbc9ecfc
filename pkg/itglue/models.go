package itglue

import (
	"context"

	"github.com/deskhound/itglue-go/pkg/client"
)

// Model is a hardware model under a manufacturer.
type Model struct {
	ID             string `json:"-"`
	Name           string `json:"name"`
	ManufacturerID int    `json:"manufacturer-id"`
}

// ModelsService operates on /models and the manufacturer relationship path.
type ModelsService struct {
	client *Client
}

// Get retrieves one model by ID.
func (s *ModelsService) Get(ctx context.Context, id string) (*Model, error) {
	doc, err := s.client.api.Get(ctx, "/models/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := rec.DecodeAttributes(&m); err != nil {
		return nil, err
	}
	m.ID = rec.ID
	return &m, nil
}

// ListByManufacturer retrieves every model under one manufacturer.
func (s *ModelsService) ListByManufacturer(ctx context.Context, manufacturerID string) ([]Model, error) {
	path := "/manufacturers/" + manufacturerID + "/relationships/models"
	res, err := s.client.fetcher.FetchAll(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(res.Records))
	for _, rec := range res.Records {
		var m Model
		if err := rec.DecodeAttributes(&m); err != nil {
			return nil, err
		}
		m.ID = rec.ID
		models = append(models, m)
	}
	return models, nil
}

// ListAll retrieves every model by walking every manufacturer sequentially.
// The API has no unscoped model listing, so total latency is linear in the
// manufacturer count.
func (s *ModelsService) ListAll(ctx context.Context) ([]Model, error) {
	manufacturers, err := s.client.Manufacturers.List(ctx)
	if err != nil {
		return nil, err
	}

	var models []Model
	for _, m := range manufacturers {
		batch, err := s.ListByManufacturer(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		models = append(models, batch...)
	}
	return models, nil
}
