package fanout

import "io"

type producer struct {
	broadcast *Broadcaster
	closed    bool
}

var _ Producer = (*producer)(nil)

func (p *producer) Write(data []byte) (int, error) {
	if p.closed {
		return 0, ErrStreamClosedForWriting
	}

	return p.broadcast.write(data)
}

// ReadFrom drains r into the broadcast buffer. It returns io.EOF on a
// clean end of input so the caller can forward the terminal error
// straight into Close, which treats io.EOF as a clean close.
func (p *producer) ReadFrom(r io.Reader) (int64, error) {
	if p.closed {
		return 0, ErrStreamClosedForWriting
	}

	var total int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := r.Read(buf)
		total += int64(n)

		if n > 0 {
			if _, writeErr := p.Write(buf[:n]); writeErr != nil {
				return total, writeErr
			}
		}

		if readErr != nil {
			return total, readErr
		}
	}
}

func (p *producer) Close(errToForward error) error {
	if p.closed {
		return ErrStreamAlreadyClosed
	}
	p.closed = true

	if errToForward == io.EOF {
		errToForward = nil
	}

	return p.broadcast.close(errToForward)
}
