package transform

import (
	"context"
	"errors"
	"io"
)

// Encoding is the output format of one ingest request, shared by the
// original and every variant.
type Encoding string

const (
	EncodingJPEG Encoding = "jpeg"
	EncodingWebP Encoding = "webp"
	EncodingPDF  Encoding = "pdf"
)

// ContentType maps an output encoding to the content type stored on the
// uploaded object. The table is closed; anything outside it is a
// configuration error that request validation is expected to catch.
func (e Encoding) ContentType() (string, error) {
	switch e {
	case EncodingJPEG:
		return "image/jpeg", nil
	case EncodingWebP:
		return "image/webp", nil
	case EncodingPDF:
		return "application/pdf", nil
	}

	return "", ErrUnsupportedEncoding
}

// Anchor is the watermark overlay position.
type Anchor string

const (
	AnchorCenter    Anchor = "center"
	AnchorSouthEast Anchor = "southeast"
	AnchorSouthWest Anchor = "southwest"
	AnchorNorthEast Anchor = "northeast"
	AnchorNorthWest Anchor = "northwest"
)

var Anchors = []Anchor{AnchorCenter, AnchorSouthEast, AnchorSouthWest, AnchorNorthEast, AnchorNorthWest}

// Stage turns the validated source stream into the bytes to upload for
// one destination. Implementations consume r fully and write the result
// to w; failures are scoped to the variant the stage belongs to.
type Stage interface {
	Apply(ctx context.Context, r io.Reader, w io.Writer) error
}

var (
	ErrUnsupportedEncoding  = errors.New("unsupported output encoding")
	ErrMalformedImage       = errors.New("malformed source image data")
	ErrWatermarkUnavailable = errors.New("watermark overlay not available")
)
