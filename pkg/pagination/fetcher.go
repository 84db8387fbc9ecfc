package pagination

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/deskhound/itglue-go/pkg/client"
	"github.com/deskhound/itglue-go/pkg/retry"
)

// Prometheus metrics for paginated fetches.
var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itglue_pages_fetched_total",
		Help: "Total pages fetched by path",
	}, []string{"path"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "itglue_fetch_duration_seconds",
		Help:    "Complete paginated fetch duration in seconds by path",
		Buckets: []float64{0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"path"})

	fetchInconsistentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itglue_fetch_inconsistent_total",
		Help: "Fetches aborted because record count disagreed with the reported total",
	})
)

// PageClient is the single-attempt request surface the fetcher needs.
// *client.Client implements it.
type PageClient interface {
	Do(ctx context.Context, method, path string, query url.Values, body []byte) (*client.Document, error)
}

// Result is a complete paginated result set. Records preserve server page
// order and len(Records) always equals TotalCount.
type Result struct {
	Records    []client.Record
	TotalCount int
}

// Fetcher retrieves complete paginated result sets.
type Fetcher struct {
	client   PageClient
	pageSize int
	policy   retry.Policy
	logger   zerolog.Logger
}

// NewFetcher creates a fetcher using the client's configured page size and
// retry policy.
func NewFetcher(c *client.Client) *Fetcher {
	cfg := c.Config()
	return New(c, cfg.PageSize, cfg.Policy)
}

// New creates a fetcher with an explicit page size and policy. pageSize
// falls back to 1000 when not positive.
func New(c PageClient, pageSize int, policy retry.Policy) *Fetcher {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Fetcher{
		client:   c,
		pageSize: pageSize,
		policy:   policy,
		logger:   log.With().Str("component", "paged-fetcher").Logger(),
	}
}

// FetchAll retrieves every record for a paged list endpoint, merging the
// caller's filters with the page parameters. An empty result set is not an
// error; callers whose contract requires at least one record decide that
// themselves.
func (f *Fetcher) FetchAll(ctx context.Context, path string, filters url.Values) (*Result, error) {
	start := time.Now()
	state := retry.NewState(f.pageSize)
	logger := f.logger.With().
		Str("path", path).
		Str("fetch_id", uuid.NewString()).
		Logger()

	// Probe with page[size]=1 to learn the total before paying for a full
	// fetch.
	probeQuery := pageQuery(filters, 1, 0)
	probeDoc, err := f.attempt(ctx, state, path, func() url.Values { return probeQuery }, nil)
	if err != nil {
		return nil, err
	}

	total := probeDoc.Meta.TotalCount
	logger.Info().Int("total_count", total).Msg("Probed total count")

	if total == 0 {
		return &Result{Records: nil, TotalCount: 0}, nil
	}

	probeRecords, err := client.DecodeRecords(probeDoc)
	if err != nil {
		return nil, err
	}

	// Single-match short circuit: the probe already holds the only record,
	// so no further pages are issued.
	if total == 1 && len(probeRecords) >= 1 {
		logger.Debug().Msg("Single record, short-circuiting after probe")
		return &Result{Records: probeRecords[:1], TotalCount: 1}, nil
	}

	records := make([]client.Record, 0, total)
	page := 1

	for len(records) < total {
		// The query closure re-reads the state so a shrunk page size takes
		// effect on the retried attempt.
		buildQuery := func() url.Values {
			return pageQuery(filters, state.PageSize, page)
		}
		onShrink := func() {
			page = int(math.Round(float64(len(records))/float64(state.PageSize))) + 1
			logger.Warn().
				Int("new_page_size", state.PageSize).
				Int("resume_page", page).
				Int("accumulated", len(records)).
				Msg("Page size reduced, recomputed resume page")
		}

		doc, err := f.attempt(ctx, state, path, buildQuery, onShrink)
		if err != nil {
			return nil, err
		}

		pageRecords, err := client.DecodeRecords(doc)
		if err != nil {
			return nil, err
		}

		// An empty page below the reported total means the server's count
		// disagrees with what it returns. Never loop on that.
		if len(pageRecords) == 0 {
			fetchInconsistentTotal.Inc()
			return nil, &client.APIError{
				Kind:  client.KindInconsistent,
				Title: "empty page below reported total",
				Detail: fmt.Sprintf("accumulated %d of %d records when page %d came back empty",
					len(records), total, page),
			}
		}

		records = append(records, pageRecords...)
		page++
		pagesFetchedTotal.WithLabelValues(path).Inc()
		logger.Debug().
			Int("accumulated", len(records)).
			Int("total", total).
			Int("page_size", state.PageSize).
			Msg("Fetch progress")
	}

	if len(records) > total {
		fetchInconsistentTotal.Inc()
		return nil, &client.APIError{
			Kind:  client.KindInconsistent,
			Title: "record count exceeds reported total",
			Detail: fmt.Sprintf("collected %d records against a reported total of %d",
				len(records), total),
		}
	}

	fetchDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	logger.Info().
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return &Result{Records: records, TotalCount: total}, nil
}

// attempt performs one page request under the retry policy. buildQuery is
// re-evaluated on every attempt so page-size changes apply; onShrink (when
// non-nil) lets the caller recompute its page number after a shrink.
func (f *Fetcher) attempt(ctx context.Context, state *retry.State, path string, buildQuery func() url.Values, onShrink func()) (*client.Document, error) {
	for {
		doc, err := f.client.Do(ctx, http.MethodGet, path, buildQuery(), nil)
		if err == nil {
			return doc, nil
		}

		class := client.RetryClassOf(err)
		if !class.Retryable() {
			return nil, err
		}

		action, decideErr := f.policy.Decide(ctx, state, class)
		if decideErr != nil {
			return nil, fmt.Errorf("%w (last error: %v)", decideErr, err)
		}
		if action == retry.ActionShrink && onShrink != nil {
			onShrink()
		}
	}
}

// pageQuery merges caller filters with the page parameters. pageNumber 0
// omits page[number] (the probe request).
func pageQuery(filters url.Values, pageSize, pageNumber int) url.Values {
	q := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page[size]", strconv.Itoa(pageSize))
	if pageNumber > 0 {
		q.Set("page[number]", strconv.Itoa(pageNumber))
	}
	return q
}
