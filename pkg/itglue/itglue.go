// Package itglue provides typed, per-resource clients over the core API
// client: configurations, organizations, locations, manufacturers, models,
// and flexible assets with their types and fields.
//
// Every list operation delegates to the paged fetcher and therefore inherits
// its retry, backoff, and completeness behavior. Name lookups fetch the full
// scope and filter client-side; the vendor API has no usable server-side
// name filter for these resources.
package itglue

import (
	"github.com/deskhound/itglue-go/pkg/client"
	"github.com/deskhound/itglue-go/pkg/pagination"
)

// Client bundles the per-resource services.
type Client struct {
	api     *client.Client
	fetcher *pagination.Fetcher

	Organizations      *OrganizationsService
	Locations          *LocationsService
	Configurations     *ConfigurationsService
	Manufacturers      *ManufacturersService
	Models             *ModelsService
	FlexibleAssetTypes *FlexibleAssetTypesService
	FlexibleAssets     *FlexibleAssetsService
}

// New creates the resource client bundle on top of an authenticated core
// client.
func New(api *client.Client) *Client {
	c := &Client{
		api:     api,
		fetcher: pagination.NewFetcher(api),
	}
	c.Organizations = &OrganizationsService{c}
	c.Locations = &LocationsService{c}
	c.Configurations = &ConfigurationsService{c}
	c.Manufacturers = &ManufacturersService{c}
	c.Models = &ModelsService{c}
	c.FlexibleAssetTypes = &FlexibleAssetTypesService{c}
	c.FlexibleAssets = &FlexibleAssetsService{c}
	return c
}
