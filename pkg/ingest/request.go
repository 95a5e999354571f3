package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thebartekbanach/imagetor/pkg/transform"
)

const (
	ActionAdd = "add"
	ActionDel = "del"
)

// VariantFile describes one requested derivative: exact target
// dimensions and the destination path of the result.
type VariantFile struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RelativePath string `json:"relativePath"`
}

type AddRequest struct {
	URL                       string             `json:"url"`
	Action                    string             `json:"action"`
	Bucket                    string             `json:"bucket"`
	Extension                 transform.Encoding `json:"extension"`
	AuthToken                 string             `json:"authToken"`
	OriginalImageRelativePath string             `json:"originalImageRelativePath"`
	Base64Format              bool               `json:"base64Format"`
	Watermark                 bool               `json:"watermark,omitempty"`
	WatermarkPosition         transform.Anchor   `json:"watermarkPosition,omitempty"`
	Files                     []VariantFile      `json:"files,omitempty"`
}

type DeleteRequest struct {
	Action       string `json:"action"`
	Bucket       string `json:"bucket"`
	AuthToken    string `json:"authToken"`
	RelativePath string `json:"relativePath"`
}

var errMissingAction = errors.New("missing or unknown action property")

// DecodeRequest parses one inbound JSON body into its typed request
// shape. Unknown top-level fields are rejected. The returned value is
// either *AddRequest or *DeleteRequest, already validated.
func DecodeRequest(body []byte) (interface{}, error) {
	var probe struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, newError(KindValidation, fmt.Errorf("malformed request body: %v", err))
	}

	switch probe.Action {
	case ActionAdd:
		var req AddRequest
		if err := decodeStrict(body, &req); err != nil {
			return nil, newError(KindValidation, err)
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return &req, nil

	case ActionDel:
		var req DeleteRequest
		if err := decodeStrict(body, &req); err != nil {
			return nil, newError(KindValidation, err)
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return &req, nil
	}

	return nil, newError(KindValidation, errMissingAction)
}

func decodeStrict(body []byte, target interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func (r *AddRequest) Validate() error {
	if r.URL == "" {
		return validationError("url is required")
	}
	if r.Bucket == "" {
		return validationError("bucket is required")
	}
	if r.AuthToken == "" {
		return validationError("authToken is required")
	}
	if r.OriginalImageRelativePath == "" {
		return validationError("originalImageRelativePath is required")
	}

	switch r.Extension {
	case transform.EncodingJPEG, transform.EncodingWebP, transform.EncodingPDF:
	default:
		return validationError("extension must be one of jpeg, pdf, webp")
	}

	if r.Extension == transform.EncodingPDF && len(r.Files) > 0 {
		return validationError("files are not allowed for pdf output")
	}

	if r.Watermark {
		if r.WatermarkPosition == "" {
			return validationError("watermarkPosition is required when watermark is enabled")
		}
		if !validAnchor(r.WatermarkPosition) {
			return validationError("watermarkPosition must be one of center, southeast, southwest, northeast, northwest")
		}
	}

	seenPaths := map[string]bool{r.OriginalImageRelativePath: true}
	for _, file := range r.Files {
		if file.Width <= 0 || file.Height <= 0 {
			return validationError("file width and height must be positive")
		}
		if file.RelativePath == "" {
			return validationError("file relativePath is required")
		}
		if seenPaths[file.RelativePath] {
			return validationError(fmt.Sprintf("duplicate destination path: %s", file.RelativePath))
		}
		seenPaths[file.RelativePath] = true
	}

	return nil
}

func (r *DeleteRequest) Validate() error {
	if r.Bucket == "" {
		return validationError("bucket is required")
	}
	if r.AuthToken == "" {
		return validationError("authToken is required")
	}
	if r.RelativePath == "" {
		return validationError("relativePath is required")
	}

	return nil
}

func validAnchor(anchor transform.Anchor) bool {
	for _, known := range transform.Anchors {
		if anchor == known {
			return true
		}
	}
	return false
}

func validationError(reason string) *Error {
	return newError(KindValidation, errors.New(reason))
}
