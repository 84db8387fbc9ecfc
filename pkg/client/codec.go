package client

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// codec decodes and encodes the vendor's JSON:API-flavored wire format.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Meta is the metadata block of a list response.
type Meta struct {
	TotalCount int `json:"total-count"`
}

// Document is the JSON:API envelope IT Glue wraps every response in. For
// list endpoints Data is an array and Meta carries the total count; for
// single-resource endpoints Data is an object.
type Document struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta"`
}

// Record is one resource object from a Document's data. Attributes is kept
// raw so each resource client can decode its own attribute shape.
type Record struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

// DecodeAttributes unmarshals the record's attributes into v.
func (r Record) DecodeAttributes(v any) error {
	if len(r.Attributes) == 0 {
		return nil
	}
	return codec.Unmarshal(r.Attributes, v)
}

// DecodeRecords decodes a list document's data array.
func DecodeRecords(doc *Document) ([]Record, error) {
	if len(doc.Data) == 0 {
		return nil, nil
	}
	var records []Record
	if err := codec.Unmarshal(doc.Data, &records); err != nil {
		return nil, &APIError{Kind: KindUnexpected, Err: err}
	}
	return records, nil
}

// DecodeRecord decodes a single-resource document's data object.
func DecodeRecord(doc *Document) (Record, error) {
	var record Record
	if len(doc.Data) == 0 {
		return record, &APIError{Kind: KindNotFound, Title: "empty response data"}
	}
	if err := codec.Unmarshal(doc.Data, &record); err != nil {
		return record, &APIError{Kind: KindUnexpected, Err: err}
	}
	return record, nil
}

// errorBody is the shape of IT Glue error responses.
type errorBody struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
	// Some endpoints return a bare {"error": "..."} instead.
	Error string `json:"error"`
}

// parseErrorBody extracts the first upstream title/detail pair, tolerating
// malformed bodies.
func parseErrorBody(body []byte) (title, detail string) {
	var eb errorBody
	if err := codec.Unmarshal(body, &eb); err != nil {
		return "", ""
	}
	if len(eb.Errors) > 0 {
		return eb.Errors[0].Title, eb.Errors[0].Detail
	}
	return eb.Error, ""
}
