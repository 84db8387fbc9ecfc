// Package pagination drives complete retrieval of paginated IT Glue list
// endpoints.
//
// The fetcher first probes with page[size]=1 to learn the server-reported
// total count, then walks pages sequentially, accumulating records in server
// order. Each page attempt runs through the shared retry policy: HTTP 429
// sleeps and retries the same page, server timeouts consume a budget and
// then halve the page size (recomputing the page number from the records
// already accumulated), and any other failure aborts the whole fetch.
//
// Example usage:
//
//	f := pagination.NewFetcher(apiClient)
//	result, err := f.FetchAll(ctx, "/configurations", url.Values{
//	    "filter[organization-id]": []string{"42"},
//	})
//
// The final record count must equal the probed total exactly; a mismatch in
// either direction fails the fetch rather than silently truncating or
// padding.
//
// Fetches are strictly sequential. The upstream API tolerates very little
// request parallelism and the accumulated order must match server page
// order, so no worker pool is used here.
package pagination
