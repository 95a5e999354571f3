package fanout

import "sync"

// Broadcaster buffers everything the producer writes and serves any
// number of independent readers from that buffer. Data is retained for
// the lifetime of the Broadcaster, which is expected to be one ingest
// request; a late reader therefore always starts at offset 0.
type Broadcaster struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf    []byte
	closed bool
	err    error
}

func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Producer returns the single write side of the broadcast. Calling it
// more than once returns handles backed by the same stream, so only one
// of them may be used.
func (b *Broadcaster) Producer() Producer {
	return &producer{broadcast: b}
}

// NewReader opens an independent cursor positioned at offset 0.
func (b *Broadcaster) NewReader() Reader {
	return &reader{broadcast: b}
}

// Len reports how many bytes have been written so far.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

func (b *Broadcaster) write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrStreamClosedForWriting
	}

	b.buf = append(b.buf, p...)
	b.cond.Broadcast()
	return len(p), nil
}

func (b *Broadcaster) close(errToForward error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrStreamAlreadyClosed
	}

	b.closed = true
	b.err = errToForward
	b.cond.Broadcast()
	return nil
}

// readAt blocks until data past off is available, the stream is closed,
// or the waiting reader is closed by stop.
func (b *Broadcaster) readAt(p []byte, off int64, stop *bool) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if *stop {
			return 0, ErrStreamClosedForReading
		}

		if off < int64(len(b.buf)) {
			n := copy(p, b.buf[off:])
			return n, nil
		}

		if b.closed {
			if b.err != nil {
				return 0, b.err
			}
			return 0, errEndOfStream
		}

		b.cond.Wait()
	}
}

// closeReader marks one reader cursor as closed and wakes any read
// blocked on it. The flag is owned by b.mu so a concurrent Read
// observes the close.
func (b *Broadcaster) closeReader(closed *bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if *closed {
		return ErrStreamAlreadyClosed
	}

	*closed = true
	b.cond.Broadcast()
	return nil
}
