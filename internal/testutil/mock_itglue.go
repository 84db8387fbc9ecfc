// Package testutil provides testing utilities for the IT Glue client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock IT Glue server for testing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount int
	requestLog   []string
	pathCounts   map[string]int
}

// NewMockAPI creates a new mock IT Glue server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers:   make(map[string]http.HandlerFunc),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.requestLog = append(mock.requestLog, r.Method+" "+r.URL.Path)
		mock.pathCounts[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"title":"Record not found"}]}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.requestLog = nil
	m.pathCounts = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/vnd.api+json")
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the total number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// PathRequestCount returns how many requests hit one path.
func (m *MockAPI) PathRequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// RequestLog returns "METHOD /path" entries in arrival order.
func (m *MockAPI) RequestLog() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.requestLog))
	copy(out, m.requestLog)
	return out
}

// Rec builds one JSON:API record for paginated fixtures.
func Rec(id, resourceType string, attributes map[string]any) map[string]any {
	return map[string]any{
		"id":         id,
		"type":       resourceType,
		"attributes": attributes,
	}
}

// SetPaginatedResource installs a handler that serves records honoring
// page[size] and page[number] and reports meta total-count, the way the
// vendor's list endpoints do.
func (m *MockAPI) SetPaginatedResource(path string, records []map[string]any) {
	m.SetHandler(path, PaginatedHandler(records))
}

// PaginatedHandler serves a record fixture with vendor-style pagination.
func PaginatedHandler(records []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := 50
		if s, err := strconv.Atoi(r.URL.Query().Get("page[size]")); err == nil && s > 0 {
			size = s
		}
		number := 1
		if n, err := strconv.Atoi(r.URL.Query().Get("page[number]")); err == nil && n > 0 {
			number = n
		}

		start := (number - 1) * size
		end := start + size
		if start > len(records) {
			start = len(records)
		}
		if end > len(records) {
			end = len(records)
		}

		WriteList(w, records[start:end], len(records))
	}
}

// WriteList writes a JSON:API list envelope with the given total count.
func WriteList(w http.ResponseWriter, records []map[string]any, totalCount int) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"data": records,
		"meta": map[string]any{"total-count": totalCount},
	})
}

// WriteSingle writes a JSON:API single-resource envelope.
func WriteSingle(w http.ResponseWriter, record map[string]any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"data": record})
}

// RateLimitBody is a vendor-style 429 error body.
const RateLimitBody = `{"errors":[{"title":"Too Many Requests","detail":"Rate limit exceeded"}]}`

// TimeoutBody is the vendor's server-side processing timeout error body.
const TimeoutBody = `{"errors":[{"title":"Gateway Timeout","detail":"The request took too long to process and timed out"}]}`

// FailThenServe responds with the given failure n times per path, then
// delegates to the wrapped handler. Used to exercise the retry machine.
func FailThenServe(n int, statusCode int, body string, then http.HandlerFunc) http.HandlerFunc {
	var mu sync.Mutex
	failures := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		shouldFail := failures < n
		if shouldFail {
			failures++
		}
		mu.Unlock()

		if shouldFail {
			w.Header().Set("Content-Type", "application/vnd.api+json")
			w.WriteHeader(statusCode)
			w.Write([]byte(body))
			return
		}
		then(w, r)
	}
}

// AlwaysFail responds with the given failure on every request.
func AlwaysFail(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	}
}

// OrgRecords builds n organization fixtures named base-1..base-n.
func OrgRecords(n int, base string) []map[string]any {
	records := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, Rec(strconv.Itoa(i), "organizations", map[string]any{
			"name": fmt.Sprintf("%s-%d", base, i),
		}))
	}
	return records
}
