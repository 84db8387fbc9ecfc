package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/deskhound/itglue-go/pkg/auth"
	"github.com/deskhound/itglue-go/pkg/client"
	"github.com/deskhound/itglue-go/pkg/itglue"
)

// newServices authenticates with the configured credentials and wires up the
// resource services.
func newServices(ctx context.Context, cfg *CLIConfig) (*itglue.Client, error) {
	var creds auth.Credentials
	switch {
	case cfg.APIKey != "":
		creds = auth.APIKey(cfg.APIKey)
	case cfg.Email != "":
		creds = auth.UserCredentials(cfg.Email, cfg.Password)
	default:
		return nil, fmt.Errorf("no credentials configured")
	}

	var opts []auth.Option
	if cfg.BaseURL != "" {
		opts = append(opts, auth.WithBaseURL(cfg.BaseURL))
	}

	session, err := auth.New(creds, opts...).Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	apiCfg := client.DefaultConfig(session.BaseURL, session.Headers)
	if cfg.PageSize > 0 {
		apiCfg.PageSize = cfg.PageSize
	}
	if cfg.Redis != "" {
		apiCfg.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis})
		if cfg.CacheTTL > 0 {
			apiCfg.CacheTTL = cfg.CacheTTL
		}
	}

	api, err := client.New(apiCfg)
	if err != nil {
		return nil, err
	}
	return itglue.New(api), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
