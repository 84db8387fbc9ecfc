package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/deskhound/itglue-go/internal/testutil"
	"github.com/deskhound/itglue-go/pkg/retry"
)

func TestUpload_Create(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	var gotMethod string
	var gotBody map[string]any
	mock.SetHandler("/configurations", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		testutil.WriteSingle(w, testutil.Rec("99", "configurations", map[string]any{"name": "fw-01"}))
	})

	c := newTestClient(t, mock)
	doc, err := c.Upload(context.Background(), OperationCreate, "/configurations", "", Payload{
		Type:       "configurations",
		Attributes: map[string]any{"name": "fw-01"},
	})
	if err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}

	data, ok := gotBody["data"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing data envelope: %v", gotBody)
	}
	if data["type"] != "configurations" {
		t.Errorf("data.type = %v, want configurations", data["type"])
	}
	attrs, ok := data["attributes"].(map[string]any)
	if !ok || attrs["name"] != "fw-01" {
		t.Errorf("data.attributes = %v, want name fw-01", data["attributes"])
	}

	rec, err := DecodeRecord(doc)
	if err != nil {
		t.Fatalf("DecodeRecord() failed: %v", err)
	}
	if rec.ID != "99" {
		t.Errorf("ID = %q, want 99", rec.ID)
	}
}

func TestUpload_UpdateTargetsInstancePath(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	var gotMethod string
	mock.SetHandler("/configurations/42", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		testutil.WriteSingle(w, testutil.Rec("42", "configurations", map[string]any{"name": "fw-01b"}))
	})

	c := newTestClient(t, mock)
	_, err := c.Upload(context.Background(), OperationUpdate, "/configurations", "42", Payload{
		Type:       "configurations",
		Attributes: map[string]any{"name": "fw-01b"},
	})
	if err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
}

func TestUpload_UpdateRequiresID(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	c := newTestClient(t, mock)
	_, err := c.Upload(context.Background(), OperationUpdate, "/configurations", "", Payload{Type: "configurations"})
	if err == nil {
		t.Fatal("Upload() accepted an update without an id")
	}
	if mock.GetRequestCount() != 0 {
		t.Error("Upload() issued a request despite the missing id")
	}
}

func TestUpload_RetriesRateLimit(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetHandler("/configurations", testutil.FailThenServe(3, http.StatusTooManyRequests, testutil.RateLimitBody,
		func(w http.ResponseWriter, r *http.Request) {
			testutil.WriteSingle(w, testutil.Rec("99", "configurations", map[string]any{"name": "fw-01"}))
		}))

	c := newTestClient(t, mock)
	_, err := c.Upload(context.Background(), OperationCreate, "/configurations", "", Payload{
		Type:       "configurations",
		Attributes: map[string]any{"name": "fw-01"},
	})
	if err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}
	if got := mock.PathRequestCount("/configurations"); got != 4 {
		t.Errorf("request count = %d, want 4", got)
	}
}

func TestUpload_TimeoutBudgetFailsWithoutShrinking(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/configurations", testutil.AlwaysFail(http.StatusGatewayTimeout, testutil.TimeoutBody))

	c := newTestClient(t, mock)
	_, err := c.Upload(context.Background(), OperationCreate, "/configurations", "", Payload{
		Type:       "configurations",
		Attributes: map[string]any{"name": "fw-01"},
	})
	if !errors.Is(err, retry.ErrUnrecoverable) {
		t.Fatalf("Upload() = %v, want ErrUnrecoverable", err)
	}
	// Initial attempt plus four in-budget retries; uploads have no page size
	// to shrink.
	if got := mock.PathRequestCount("/configurations"); got != 5 {
		t.Errorf("request count = %d, want 5", got)
	}
}
