package transform

import (
	"image"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const jpegQuality = 90
const webpQuality = 90

// encode writes img to w in the requested output encoding. PDF is not a
// pixel format, so it is only reachable through Passthrough; request
// validation keeps resize variants away from it.
func encode(w io.Writer, img image.Image, encoding Encoding) error {
	switch encoding {
	case EncodingJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case EncodingWebP:
		return webp.Encode(w, img, &webp.Options{Quality: webpQuality})
	}

	return ErrUnsupportedEncoding
}
