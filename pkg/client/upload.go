package client

import (
	"context"
	"fmt"
	"net/http"
)

// Operation selects between creating a resource and updating one in place.
type Operation string

const (
	// OperationCreate issues a POST against the collection path.
	OperationCreate Operation = "create"

	// OperationUpdate issues a PATCH against the instance path and requires
	// a resource ID.
	OperationUpdate Operation = "update"
)

// Payload is the JSON:API body for a create or update: the resource type
// plus its attributes.
type Payload struct {
	Type       string `json:"type"`
	Attributes any    `json:"attributes"`
}

// envelope nests a payload under the required top-level data key.
type envelope struct {
	Data Payload `json:"data"`
}

// Upload sends a create or update payload to a resource path, reusing the
// same rate-limit/timeout retry machine as the fetch paths. There is no page
// size here, so a spent timeout budget fails with retry.ErrUnrecoverable
// instead of shrinking anything.
func (c *Client) Upload(ctx context.Context, op Operation, path, id string, payload Payload) (*Document, error) {
	var method string
	switch op {
	case OperationCreate:
		method = http.MethodPost
	case OperationUpdate:
		if id == "" {
			return nil, &APIError{Kind: KindUnexpected, Title: "update requires a resource id"}
		}
		method = http.MethodPatch
		path = path + "/" + id
	default:
		return nil, &APIError{Kind: KindUnexpected, Title: fmt.Sprintf("unknown operation %q", op)}
	}

	body, err := codec.Marshal(envelope{Data: payload})
	if err != nil {
		return nil, &APIError{Kind: KindUnexpected, Err: fmt.Errorf("encode payload: %w", err)}
	}

	c.logger.Info().
		Str("operation", string(op)).
		Str("path", path).
		Str("type", payload.Type).
		Msg("Uploading payload")

	return c.doWithRetry(ctx, method, path, nil, body)
}
