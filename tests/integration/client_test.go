//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/deskhound/itglue-go/internal/testutil"
	"github.com/deskhound/itglue-go/pkg/client"
	"github.com/deskhound/itglue-go/pkg/itglue"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newCachedClient(t *testing.T, mock *testutil.MockAPI, redisClient *redis.Client) *client.Client {
	t.Helper()

	cfg := client.DefaultConfig(mock.URL(), map[string]string{
		"x-api-key":    "integration-key",
		"content-type": "application/vnd.api+json",
	})
	cfg.Redis = redisClient
	cfg.CacheTTL = time.Minute
	cfg.Policy.RateLimitBackoff = 10 * time.Millisecond

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

// TestCachedFetchFlow covers the full flow against a real Redis: first fetch
// hits the API and populates the cache, a repeat fetch within the TTL is
// served entirely from Redis.
func TestCachedFetchFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPaginatedResource("/organizations", testutil.OrgRecords(5, "org"))

	services := itglue.New(newCachedClient(t, mock, redisClient))
	ctx := context.Background()

	orgs, err := services.Organizations.List(ctx)
	if err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	if len(orgs) != 5 {
		t.Fatalf("len(orgs) = %d, want 5", len(orgs))
	}

	firstCount := mock.GetRequestCount()
	if firstCount == 0 {
		t.Fatal("first fetch issued no requests")
	}

	orgs, err = services.Organizations.List(ctx)
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if len(orgs) != 5 {
		t.Fatalf("len(orgs) = %d after cached fetch, want 5", len(orgs))
	}

	// Every page of the repeat fetch is served from Redis.
	if got := mock.GetRequestCount(); got != firstCount {
		t.Errorf("API requests after cached fetch = %d, want %d", got, firstCount)
	}
}

// TestCacheExpiry verifies entries drop out after their TTL and the next
// fetch goes back to the API.
func TestCacheExpiry(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPaginatedResource("/organizations", testutil.OrgRecords(2, "org"))

	cfg := client.DefaultConfig(mock.URL(), map[string]string{
		"x-api-key":    "integration-key",
		"content-type": "application/vnd.api+json",
	})
	cfg.Redis = redisClient
	cfg.CacheTTL = 500 * time.Millisecond

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	services := itglue.New(c)
	ctx := context.Background()

	if _, err := services.Organizations.List(ctx); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	firstCount := mock.GetRequestCount()

	time.Sleep(time.Second)

	if _, err := services.Organizations.List(ctx); err != nil {
		t.Fatalf("Fetch after expiry failed: %v", err)
	}
	if got := mock.GetRequestCount(); got <= firstCount {
		t.Errorf("API requests after expiry = %d, want more than %d", got, firstCount)
	}
}

// TestUploadsBypassCache verifies a create goes to the API even when GET
// responses for the same path are cached.
func TestUploadsBypassCache(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()
	listHandler := testutil.PaginatedHandler([]map[string]any{
		testutil.Rec("1", "configurations", map[string]any{"name": "fw-01"}),
	})
	mock.SetHandler("/configurations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			testutil.WriteSingle(w, testutil.Rec("2", "configurations", map[string]any{"name": "fw-02"}))
			return
		}
		listHandler(w, r)
	})

	services := itglue.New(newCachedClient(t, mock, redisClient))
	ctx := context.Background()

	if _, err := services.Configurations.List(ctx, ""); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	listCount := mock.GetRequestCount()

	if _, err := services.Configurations.Create(ctx, itglue.ConfigurationAttributes{Name: "fw-02"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := mock.GetRequestCount(); got != listCount+1 {
		t.Errorf("API requests after create = %d, want %d", got, listCount+1)
	}
}
