package fanout

import (
	"errors"
	"io"
)

type (
	// Producer is the write side of a broadcast stream. Exactly one
	// producer feeds a Broadcaster; Close must be called exactly once,
	// with the terminal error of the source (io.EOF and nil both mean a
	// clean end of stream).
	Producer interface {
		io.Writer
		io.ReaderFrom

		Close(errToForward error) error
	}

	// Reader is one independent cursor over the broadcast bytes. Every
	// reader observes the full byte sequence from offset 0, in order,
	// regardless of when it was opened or how fast sibling readers
	// consume.
	Reader interface {
		io.ReadCloser
	}
)

var (
	ErrStreamClosedForWriting = errors.New("stream closed for writing")
	ErrStreamClosedForReading = errors.New("stream closed for reading")
	ErrStreamAlreadyClosed    = errors.New("stream already closed")
)
