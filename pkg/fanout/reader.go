package fanout

import (
	"errors"
	"io"
)

// errEndOfStream marks a clean producer close inside the broadcast
// buffer; readers translate it to io.EOF.
var errEndOfStream = errors.New("end of stream")

type reader struct {
	broadcast *Broadcaster
	pos       int64
	closed    bool
}

var _ Reader = (*reader)(nil)

func (r *reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n, err := r.broadcast.readAt(p, r.pos, &r.closed)
	if err != nil {
		if err == errEndOfStream {
			return 0, io.EOF
		}
		return 0, err
	}

	r.pos += int64(n)
	return n, nil
}

func (r *reader) Close() error {
	return r.broadcast.closeReader(&r.closed)
}
