// Package sniff classifies a byte stream by its binary signature and
// hands back an equivalent stream with the inspected prefix restored.
// Only jpeg, png and pdf are accepted; everything else, including an
// empty stream, is rejected before any transform or upload work starts.
package sniff

import (
	"bytes"
	"errors"
	"io"
)

type Type string

const (
	TypeJPEG Type = "jpeg"
	TypePNG  Type = "png"
	TypePDF  Type = "pdf"

	TypeUnknown Type = ""
)

var ErrUnknownFormat = errors.New("file type invalid or request empty")

// sniffWindow covers the longest signature we care about.
const sniffWindow = 8

var signatures = []struct {
	prefix []byte
	kind   Type
}{
	{[]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, TypePNG},
	{[]byte{0xFF, 0xD8, 0xFF}, TypeJPEG},
	{[]byte("%PDF"), TypePDF},
}

// Detect classifies the first bytes of a payload. The caller may pass
// fewer than sniffWindow bytes; a prefix shorter than a signature never
// matches it.
func Detect(prefix []byte) Type {
	for _, sig := range signatures {
		if bytes.HasPrefix(prefix, sig.prefix) {
			return sig.kind
		}
	}

	return TypeUnknown
}

// Peek reads at most sniffWindow bytes from r, classifies them, and
// returns a reader that replays the peeked bytes followed by the rest
// of r. The restored reader yields exactly the original byte sequence.
func Peek(r io.Reader) (Type, io.Reader, error) {
	prefix := make([]byte, sniffWindow)
	n, err := io.ReadFull(r, prefix)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return TypeUnknown, nil, err
	}

	kind := Detect(prefix[:n])
	if kind == TypeUnknown {
		return TypeUnknown, nil, ErrUnknownFormat
	}

	return kind, io.MultiReader(bytes.NewReader(prefix[:n]), r), nil
}
