package itglue

import (
	"context"
	"net/url"

	"github.com/deskhound/itglue-go/pkg/client"
)

// FlexibleAsset is a vendor-defined custom resource whose Traits follow the
// field schema of its flexible asset type.
type FlexibleAsset struct {
	ID                  string         `json:"-"`
	OrganizationID      int            `json:"organization-id"`
	FlexibleAssetTypeID int            `json:"flexible-asset-type-id"`
	Traits              map[string]any `json:"traits"`
}

// FlexibleAssetAttributes is the writable attribute set for creates and
// updates.
type FlexibleAssetAttributes struct {
	OrganizationID      int            `json:"organization-id,omitempty"`
	FlexibleAssetTypeID int            `json:"flexible-asset-type-id,omitempty"`
	Traits              map[string]any `json:"traits,omitempty"`
}

// FlexibleAssetsService operates on /flexible_assets.
type FlexibleAssetsService struct {
	client *Client
}

// List retrieves flexible assets of one type; the API requires the type
// filter on this endpoint. organizationID further narrows the scope when
// non-empty.
func (s *FlexibleAssetsService) List(ctx context.Context, typeID, organizationID string) ([]FlexibleAsset, error) {
	if typeID == "" {
		return nil, &client.APIError{
			Kind:  client.KindUnexpected,
			Title: "flexible asset listing requires a flexible asset type id",
		}
	}

	filters := url.Values{"filter[flexible_asset_type_id]": []string{typeID}}
	if organizationID != "" {
		filters.Set("filter[organization-id]", organizationID)
	}

	res, err := s.client.fetcher.FetchAll(ctx, "/flexible_assets", filters)
	if err != nil {
		return nil, err
	}

	assets := make([]FlexibleAsset, 0, len(res.Records))
	for _, rec := range res.Records {
		var a FlexibleAsset
		if err := rec.DecodeAttributes(&a); err != nil {
			return nil, err
		}
		a.ID = rec.ID
		assets = append(assets, a)
	}
	return assets, nil
}

// Get retrieves one flexible asset by ID.
func (s *FlexibleAssetsService) Get(ctx context.Context, id string) (*FlexibleAsset, error) {
	doc, err := s.client.api.Get(ctx, "/flexible_assets/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeFlexibleAsset(doc)
}

// Create uploads a new flexible asset.
func (s *FlexibleAssetsService) Create(ctx context.Context, attrs FlexibleAssetAttributes) (*FlexibleAsset, error) {
	doc, err := s.client.api.Upload(ctx, client.OperationCreate, "/flexible_assets", "", client.Payload{
		Type:       "flexible-assets",
		Attributes: attrs,
	})
	if err != nil {
		return nil, err
	}
	return decodeFlexibleAsset(doc)
}

// Update patches an existing flexible asset. Traits not present in attrs
// keep their stored values.
func (s *FlexibleAssetsService) Update(ctx context.Context, id string, attrs FlexibleAssetAttributes) (*FlexibleAsset, error) {
	doc, err := s.client.api.Upload(ctx, client.OperationUpdate, "/flexible_assets", id, client.Payload{
		Type:       "flexible-assets",
		Attributes: attrs,
	})
	if err != nil {
		return nil, err
	}
	return decodeFlexibleAsset(doc)
}

func decodeFlexibleAsset(doc *client.Document) (*FlexibleAsset, error) {
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var a FlexibleAsset
	if err := rec.DecodeAttributes(&a); err != nil {
		return nil, err
	}
	a.ID = rec.ID
	return &a, nil
}
