package itglue

import (
	"context"

	"github.com/deskhound/itglue-go/pkg/client"
)

// FlexibleAssetType defines the schema of a flexible asset.
type FlexibleAssetType struct {
	ID          string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Enabled     bool   `json:"enabled"`
}

// FlexibleAssetField is one field definition of a flexible asset type.
type FlexibleAssetField struct {
	ID                  string `json:"-"`
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	Hint                string `json:"hint"`
	Order               int    `json:"order"`
	Required            bool   `json:"required"`
	ShowInList          bool   `json:"show-in-list"`
	TagType             string `json:"tag-type"`
	FlexibleAssetTypeID int    `json:"flexible-asset-type-id"`
}

// FlexibleAssetTypesService operates on /flexible_asset_types.
type FlexibleAssetTypesService struct {
	client *Client
}

// List retrieves every flexible asset type.
func (s *FlexibleAssetTypesService) List(ctx context.Context) ([]FlexibleAssetType, error) {
	res, err := s.client.fetcher.FetchAll(ctx, "/flexible_asset_types", nil)
	if err != nil {
		return nil, err
	}

	types := make([]FlexibleAssetType, 0, len(res.Records))
	for _, rec := range res.Records {
		var t FlexibleAssetType
		if err := rec.DecodeAttributes(&t); err != nil {
			return nil, err
		}
		t.ID = rec.ID
		types = append(types, t)
	}
	return types, nil
}

// Get retrieves one flexible asset type by ID.
func (s *FlexibleAssetTypesService) Get(ctx context.Context, id string) (*FlexibleAssetType, error) {
	doc, err := s.client.api.Get(ctx, "/flexible_asset_types/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var t FlexibleAssetType
	if err := rec.DecodeAttributes(&t); err != nil {
		return nil, err
	}
	t.ID = rec.ID
	return &t, nil
}

// FindByName fetches all types and filters client-side by name pattern.
func (s *FlexibleAssetTypesService) FindByName(ctx context.Context, pattern string) ([]FlexibleAssetType, error) {
	types, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := types[:0:0]
	for _, t := range types {
		if matchName(t.Name, pattern) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Fields retrieves the field definitions of one flexible asset type.
func (s *FlexibleAssetTypesService) Fields(ctx context.Context, typeID string) ([]FlexibleAssetField, error) {
	path := "/flexible_asset_types/" + typeID + "/relationships/flexible_asset_fields"
	res, err := s.client.fetcher.FetchAll(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	fields := make([]FlexibleAssetField, 0, len(res.Records))
	for _, rec := range res.Records {
		var f FlexibleAssetField
		if err := rec.DecodeAttributes(&f); err != nil {
			return nil, err
		}
		f.ID = rec.ID
		fields = append(fields, f)
	}
	return fields, nil
}
