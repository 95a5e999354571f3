package transform

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

type passthroughStage struct{}

var _ Stage = (*passthroughStage)(nil)

// Passthrough uploads the source bytes as-is; the output encoding is
// only re-tagged as the content type at upload time.
func Passthrough() Stage {
	return &passthroughStage{}
}

func (*passthroughStage) Apply(ctx context.Context, r io.Reader, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := io.Copy(w, r)
	return err
}

type resizeStage struct {
	width    int
	height   int
	encoding Encoding

	overlayPath string
	anchor      Anchor
}

var _ Stage = (*resizeStage)(nil)

// Resize scales the source image to exactly width x height and encodes
// the result in the requested output encoding.
func Resize(width, height int, encoding Encoding) Stage {
	return &resizeStage{width: width, height: height, encoding: encoding}
}

// ResizeWithWatermark is Resize plus a single overlay composited at the
// given anchor before final encoding. The overlay image is read from
// the bucket-configured path; a missing or undecodable overlay fails
// the stage.
func ResizeWithWatermark(width, height int, encoding Encoding, overlayPath string, anchor Anchor) Stage {
	return &resizeStage{
		width:       width,
		height:      height,
		encoding:    encoding,
		overlayPath: overlayPath,
		anchor:      anchor,
	}
}

func (stage *resizeStage) Apply(ctx context.Context, r io.Reader, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}

	resized := imaging.Resize(img, stage.width, stage.height, imaging.Lanczos)

	if stage.overlayPath != "" {
		resized, err = stage.applyWatermark(resized)
		if err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return encode(w, resized, stage.encoding)
}

func (stage *resizeStage) applyWatermark(img *image.NRGBA) (*image.NRGBA, error) {
	overlay, err := imaging.Open(stage.overlayPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatermarkUnavailable, err)
	}

	position := anchorPosition(img.Bounds(), overlay.Bounds(), stage.anchor)
	return imaging.Overlay(img, overlay, position, 1.0), nil
}

func anchorPosition(canvas, overlay image.Rectangle, anchor Anchor) image.Point {
	cw, ch := canvas.Dx(), canvas.Dy()
	ow, oh := overlay.Dx(), overlay.Dy()

	switch anchor {
	case AnchorNorthWest:
		return image.Pt(0, 0)
	case AnchorNorthEast:
		return image.Pt(cw-ow, 0)
	case AnchorSouthWest:
		return image.Pt(0, ch-oh)
	case AnchorSouthEast:
		return image.Pt(cw-ow, ch-oh)
	}

	// center
	return image.Pt((cw-ow)/2, (ch-oh)/2)
}
