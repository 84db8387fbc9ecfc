package itglue

import (
	"context"
	"net/url"

	"github.com/deskhound/itglue-go/pkg/client"
)

// Configuration is a device configuration record.
type Configuration struct {
	ID                    string `json:"-"`
	Name                  string `json:"name"`
	Hostname              string `json:"hostname"`
	PrimaryIP             string `json:"primary-ip"`
	MACAddress            string `json:"mac-address"`
	SerialNumber          string `json:"serial-number"`
	AssetTag              string `json:"asset-tag"`
	Notes                 string `json:"notes"`
	InstalledBy           string `json:"installed-by"`
	PurchasedAt           string `json:"purchased-at"`
	WarrantyExpiresAt     string `json:"warranty-expires-at"`
	OrganizationID        int    `json:"organization-id"`
	ConfigurationTypeID   int    `json:"configuration-type-id"`
	ConfigurationStatusID int    `json:"configuration-status-id"`
	ManufacturerID        int    `json:"manufacturer-id"`
	ModelID               int    `json:"model-id"`
	LocationID            int    `json:"location-id"`
}

// ConfigurationAttributes is the writable attribute set for creates and
// updates. Zero-valued fields are omitted from the payload so partial
// updates do not blank existing values.
type ConfigurationAttributes struct {
	Name                  string `json:"name,omitempty"`
	Hostname              string `json:"hostname,omitempty"`
	PrimaryIP             string `json:"primary-ip,omitempty"`
	MACAddress            string `json:"mac-address,omitempty"`
	SerialNumber          string `json:"serial-number,omitempty"`
	AssetTag              string `json:"asset-tag,omitempty"`
	Notes                 string `json:"notes,omitempty"`
	OrganizationID        int    `json:"organization-id,omitempty"`
	ConfigurationTypeID   int    `json:"configuration-type-id,omitempty"`
	ConfigurationStatusID int    `json:"configuration-status-id,omitempty"`
	ManufacturerID        int    `json:"manufacturer-id,omitempty"`
	ModelID               int    `json:"model-id,omitempty"`
	LocationID            int    `json:"location-id,omitempty"`
}

// ConfigurationsService operates on /configurations.
type ConfigurationsService struct {
	client *Client
}

// List retrieves configurations, optionally scoped to one organization via
// filter[organization-id].
func (s *ConfigurationsService) List(ctx context.Context, organizationID string) ([]Configuration, error) {
	var filters url.Values
	if organizationID != "" {
		filters = url.Values{"filter[organization-id]": []string{organizationID}}
	}

	res, err := s.client.fetcher.FetchAll(ctx, "/configurations", filters)
	if err != nil {
		return nil, err
	}

	configs := make([]Configuration, 0, len(res.Records))
	for _, rec := range res.Records {
		var cfg Configuration
		if err := rec.DecodeAttributes(&cfg); err != nil {
			return nil, err
		}
		cfg.ID = rec.ID
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Get retrieves one configuration by ID.
func (s *ConfigurationsService) Get(ctx context.Context, id string) (*Configuration, error) {
	doc, err := s.client.api.Get(ctx, "/configurations/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var cfg Configuration
	if err := rec.DecodeAttributes(&cfg); err != nil {
		return nil, err
	}
	cfg.ID = rec.ID
	return &cfg, nil
}

// FindByName fetches the scope's configurations and filters client-side by
// name pattern. The fetch pulls the full scope regardless of how narrow the
// pattern is.
func (s *ConfigurationsService) FindByName(ctx context.Context, organizationID, pattern string) ([]Configuration, error) {
	configs, err := s.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	matched := configs[:0:0]
	for _, cfg := range configs {
		if matchName(cfg.Name, pattern) {
			matched = append(matched, cfg)
		}
	}
	return matched, nil
}

// Create uploads a new configuration.
func (s *ConfigurationsService) Create(ctx context.Context, attrs ConfigurationAttributes) (*Configuration, error) {
	doc, err := s.client.api.Upload(ctx, client.OperationCreate, "/configurations", "", client.Payload{
		Type:       "configurations",
		Attributes: attrs,
	})
	if err != nil {
		return nil, err
	}
	return decodeConfiguration(doc)
}

// Update patches an existing configuration in place.
func (s *ConfigurationsService) Update(ctx context.Context, id string, attrs ConfigurationAttributes) (*Configuration, error) {
	doc, err := s.client.api.Upload(ctx, client.OperationUpdate, "/configurations", id, client.Payload{
		Type:       "configurations",
		Attributes: attrs,
	})
	if err != nil {
		return nil, err
	}
	return decodeConfiguration(doc)
}

func decodeConfiguration(doc *client.Document) (*Configuration, error) {
	rec, err := client.DecodeRecord(doc)
	if err != nil {
		return nil, err
	}
	var cfg Configuration
	if err := rec.DecodeAttributes(&cfg); err != nil {
		return nil, err
	}
	cfg.ID = rec.ID
	return &cfg, nil
}
