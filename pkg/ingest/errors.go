package ingest

import (
	"errors"
	"net/http"

	"github.com/thebartekbanach/imagetor/pkg/config"
	"github.com/thebartekbanach/imagetor/pkg/fetcher"
	"github.com/thebartekbanach/imagetor/pkg/sniff"
	"github.com/thebartekbanach/imagetor/pkg/storage"
	"github.com/thebartekbanach/imagetor/pkg/transform"
)

// Kind places a failure in the request lifecycle so the transport layer
// can map it to a status class: client mistakes are 4xx, backend and
// pipeline faults are 5xx.
type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindFetch
	KindSniff
	KindTransform
	KindStorage
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindFetch:
		return "fetch"
	case KindSniff:
		return "sniff"
	case KindTransform:
		return "transform"
	case KindStorage:
		return "storage"
	}
	return "internal"
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindFetch, KindSniff:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// StatusOf maps any error surfaced by the service to an HTTP status.
func StatusOf(err error) int {
	var ingestErr *Error
	if errors.As(err, &ingestErr) {
		return ingestErr.Kind.HTTPStatus()
	}

	return http.StatusInternalServerError
}

var ErrTokenMismatch = errors.New("token mismatch")

// classify resolves the kind of an error that crossed stage boundaries,
// e.g. a fetch failure forwarded through the broadcast stream and
// observed by a transform read.
func classify(err error, fallback Kind) Kind {
	switch {
	case errors.Is(err, fetcher.ErrResponseStatusNotOK),
		errors.Is(err, fetcher.ErrInvalidBase64),
		errors.Is(err, fetcher.ErrDomainNotAllowed):
		return KindFetch

	case errors.Is(err, sniff.ErrUnknownFormat):
		return KindSniff

	case errors.Is(err, transform.ErrMalformedImage),
		errors.Is(err, transform.ErrWatermarkUnavailable),
		errors.Is(err, transform.ErrUnsupportedEncoding):
		return KindTransform

	case errors.Is(err, storage.ErrUploadFailed),
		errors.Is(err, storage.ErrDeleteFailed):
		return KindStorage

	case errors.Is(err, config.ErrUnknownBucket),
		errors.Is(err, ErrTokenMismatch):
		return KindAuth
	}

	return fallback
}
