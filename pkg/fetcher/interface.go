package fetcher

import (
	"context"
	"errors"

	"github.com/thebartekbanach/imagetor/pkg/fanout"
)

// Source describes where the ingest payload comes from. The URL is
// always fetched; when Base64 is set the fetched body is base64 text
// that decodes to the real payload. AuthHeader and AllowedDomains come
// from the bucket configuration.
type Source struct {
	URL            string
	Base64         bool
	AuthHeader     map[string]string
	AllowedDomains []string
}

// Fetcher obtains the source bytes and streams them into the given
// producer. On success the producer keeps filling in the background and
// is closed with the terminal error of the transfer; on failure the
// producer is closed immediately and the error is returned.
type Fetcher interface {
	Fetch(ctx context.Context, src Source, input fanout.Producer) error
}

var (
	ErrResponseStatusNotOK = errors.New("source returned non-200 status code")
	ErrDomainNotAllowed    = errors.New("source domain not allowed for bucket")
	ErrInvalidBase64       = errors.New("source payload is not valid base64")
)
