package ingest

import "context"

// Result is one successfully uploaded destination: the original or one
// variant.
type Result struct {
	URL  string `json:"url"`
	Path string `json:"-"`
}

// Service runs the ingest-and-fan-out pipeline for add requests and the
// single-object delete flow for del requests. Results of Add are in
// completion order, which is not guaranteed to match request order.
type Service interface {
	Add(ctx context.Context, req AddRequest) ([]Result, error)
	Delete(ctx context.Context, req DeleteRequest) error
}
