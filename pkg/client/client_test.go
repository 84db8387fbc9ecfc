package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/deskhound/itglue-go/internal/testutil"
	"github.com/deskhound/itglue-go/pkg/retry"
)

// newTestClient builds a client against the mock server with a millisecond
// rate-limit backoff so exhaustion paths run fast.
func newTestClient(t *testing.T, mock *testutil.MockAPI) *Client {
	t.Helper()

	cfg := DefaultConfig(mock.URL(), map[string]string{
		"x-api-key":    "test-key",
		"content-type": "application/vnd.api+json",
	})
	cfg.Policy.RateLimitBackoff = time.Millisecond

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() accepted an empty config")
	}
	if _, err := New(Config{BaseURL: "https://api.itglue.com"}); err == nil {
		t.Error("New() accepted a config without auth headers")
	}
}

func TestDo_Success(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPaginatedResource("/organizations", testutil.OrgRecords(3, "org"))

	c := newTestClient(t, mock)

	doc, err := c.Do(context.Background(), http.MethodGet, "/organizations", nil, nil)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if doc.Meta.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", doc.Meta.TotalCount)
	}

	records, err := DecodeRecords(doc)
	if err != nil {
		t.Fatalf("DecodeRecords() failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3", len(records))
	}
}

func TestDo_SendsAuthHeaders(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	var gotKey, gotContentType string
	mock.SetHandler("/organizations", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotContentType = r.Header.Get("content-type")
		testutil.WriteList(w, nil, 0)
	})

	c := newTestClient(t, mock)
	if _, err := c.Do(context.Background(), http.MethodGet, "/organizations", nil, nil); err != nil {
		t.Fatalf("Do() failed: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q, want %q", gotKey, "test-key")
	}
	if gotContentType != "application/vnd.api+json" {
		t.Errorf("content-type = %q, want vendor media type", gotContentType)
	}
}

func TestDo_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{"429 is rate limited", http.StatusTooManyRequests, testutil.RateLimitBody, KindRateLimited},
		{"timeout body is timeout", http.StatusGatewayTimeout, testutil.TimeoutBody, KindTimeout},
		{"404 is not found", http.StatusNotFound, `{"errors":[{"title":"Record not found"}]}`, KindNotFound},
		{"401 is auth failed", http.StatusUnauthorized, `{"errors":[{"title":"Unauthorized"}]}`, KindAuthFailed},
		{"500 is unexpected", http.StatusInternalServerError, `{"errors":[{"title":"Server error","detail":"boom"}]}`, KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockAPI()
			defer mock.Close()
			mock.SetResponse("/organizations", testutil.MockResponse{StatusCode: tt.status, Body: tt.body})

			c := newTestClient(t, mock)
			_, err := c.Do(context.Background(), http.MethodGet, "/organizations", nil, nil)
			if err == nil {
				t.Fatal("Do() succeeded, want error")
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestDo_CarriesUpstreamDetail(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/organizations", testutil.MockResponse{
		StatusCode: http.StatusUnprocessableEntity,
		Body:       `{"errors":[{"title":"Validation failed","detail":"name is blank"}]}`,
	})

	c := newTestClient(t, mock)
	_, err := c.Do(context.Background(), http.MethodGet, "/organizations", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *APIError", err)
	}
	if apiErr.Title != "Validation failed" || apiErr.Detail != "name is blank" {
		t.Errorf("Title/Detail = %q/%q, want upstream values", apiErr.Title, apiErr.Detail)
	}
}

func TestGet_RetriesRateLimit(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	org := testutil.Rec("7", "organizations", map[string]any{"name": "acme"})
	mock.SetHandler("/organizations/7", testutil.FailThenServe(2, http.StatusTooManyRequests, testutil.RateLimitBody,
		func(w http.ResponseWriter, r *http.Request) {
			testutil.WriteSingle(w, org)
		}))

	c := newTestClient(t, mock)
	doc, err := c.Get(context.Background(), "/organizations/7", nil)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	rec, err := DecodeRecord(doc)
	if err != nil {
		t.Fatalf("DecodeRecord() failed: %v", err)
	}
	if rec.ID != "7" {
		t.Errorf("ID = %q, want %q", rec.ID, "7")
	}
	if got := mock.PathRequestCount("/organizations/7"); got != 3 {
		t.Errorf("request count = %d, want 3 (two 429s plus success)", got)
	}
}

func TestGet_RateLimitExhaustion(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/organizations/7", testutil.AlwaysFail(http.StatusTooManyRequests, testutil.RateLimitBody))

	c := newTestClient(t, mock)
	_, err := c.Get(context.Background(), "/organizations/7", nil)
	if !errors.Is(err, retry.ErrRateLimitExceeded) {
		t.Fatalf("Get() = %v, want ErrRateLimitExceeded", err)
	}
	// Initial attempt plus nine retries.
	if got := mock.PathRequestCount("/organizations/7"); got != 10 {
		t.Errorf("request count = %d, want 10", got)
	}
}

func TestGet_TimeoutBudgetUnrecoverable(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/organizations/7", testutil.AlwaysFail(http.StatusGatewayTimeout, testutil.TimeoutBody))

	c := newTestClient(t, mock)
	_, err := c.Get(context.Background(), "/organizations/7", nil)
	if !errors.Is(err, retry.ErrUnrecoverable) {
		t.Fatalf("Get() = %v, want ErrUnrecoverable (no page size to shrink)", err)
	}
}

func TestGet_FatalErrorNotRetried(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/organizations/7", testutil.MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"errors":[{"title":"Server error"}]}`,
	})

	c := newTestClient(t, mock)
	_, err := c.Get(context.Background(), "/organizations/7", nil)
	if err == nil {
		t.Fatal("Get() succeeded, want error")
	}
	if got := mock.PathRequestCount("/organizations/7"); got != 1 {
		t.Errorf("request count = %d, want 1 (fatal errors are not retried)", got)
	}
}

func TestDo_QueryEncoding(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	var gotQuery url.Values
	mock.SetHandler("/configurations", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		testutil.WriteList(w, nil, 0)
	})

	c := newTestClient(t, mock)
	query := url.Values{
		"filter[organization-id]": []string{"42"},
		"page[size]":              []string{"1000"},
	}
	if _, err := c.Do(context.Background(), http.MethodGet, "/configurations", query, nil); err != nil {
		t.Fatalf("Do() failed: %v", err)
	}

	if gotQuery.Get("filter[organization-id]") != "42" {
		t.Errorf("filter[organization-id] = %q, want 42", gotQuery.Get("filter[organization-id]"))
	}
	if gotQuery.Get("page[size]") != "1000" {
		t.Errorf("page[size] = %q, want 1000", gotQuery.Get("page[size]"))
	}
}
