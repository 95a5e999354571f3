package fanout

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	. "github.com/franela/goblin"
)

func TestBroadcaster(t *testing.T) {
	g := Goblin(t)

	g.Describe("Broadcaster", func() {
		g.It("Should deliver written data to a single reader", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()

			producer.Write([]byte{0x1, 0x2, 0x3})
			producer.Close(nil)

			data, err := io.ReadAll(broadcast.NewReader())
			g.Assert(err).Equal(nil)
			g.Assert(data).Equal([]byte{0x1, 0x2, 0x3})
		})

		g.It("Should give every reader an independent view of all bytes", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()

			first := broadcast.NewReader()
			producer.Write([]byte("hello "))
			second := broadcast.NewReader()
			producer.Write([]byte("world"))
			producer.Close(nil)
			third := broadcast.NewReader()

			for _, reader := range []Reader{first, second, third} {
				data, err := io.ReadAll(reader)
				g.Assert(err).Equal(nil)
				g.Assert(string(data)).Equal("hello world")
			}
		})

		g.It("Should block reads until data arrives", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()
			reader := broadcast.NewReader()

			done := make(chan []byte)
			go func() {
				data, _ := io.ReadAll(reader)
				done <- data
			}()

			producer.Write([]byte{0xAA})
			producer.Write([]byte{0xBB})
			producer.Close(nil)

			g.Assert(<-done).Equal([]byte{0xAA, 0xBB})
		})

		g.It("Should forward producer error to all readers in place of EOF", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()
			testError := errors.New("upstream failed")

			producer.Write([]byte{0x1})
			producer.Close(testError)

			reader := broadcast.NewReader()
			chunk := make([]byte, 1)
			n, err := reader.Read(chunk)
			g.Assert(n).Equal(1)
			g.Assert(err).Equal(nil)

			_, err = reader.Read(chunk)
			g.Assert(err).Equal(testError)
		})

		g.It("Should treat io.EOF passed to Close as a clean end of stream", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()

			producer.Close(io.EOF)

			_, err := broadcast.NewReader().Read(make([]byte, 1))
			g.Assert(err).Equal(io.EOF)
		})

		g.It("Should reject writes after close", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()

			producer.Close(nil)
			_, err := producer.Write([]byte{0x1})

			g.Assert(err).Equal(ErrStreamClosedForWriting)
		})

		g.It("Should reject a second close", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()

			producer.Close(nil)
			g.Assert(producer.Close(nil)).Equal(ErrStreamAlreadyClosed)
		})

		g.It("Should reject reads on a closed reader", func() {
			broadcast := NewBroadcaster()
			reader := broadcast.NewReader()

			reader.Close()
			_, err := reader.Read(make([]byte, 1))

			g.Assert(err).Equal(ErrStreamClosedForReading)
		})

		g.It("Should unblock a waiting read when the reader is closed", func() {
			broadcast := NewBroadcaster()
			reader := broadcast.NewReader()

			done := make(chan error)
			go func() {
				_, err := reader.Read(make([]byte, 1))
				done <- err
			}()

			reader.Close()
			g.Assert(<-done).Equal(ErrStreamClosedForReading)
		})

		g.It("Should preserve byte order under concurrent consumption", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()

			expected := make([]byte, 0, 1024)
			for i := 0; i < 1024; i++ {
				expected = append(expected, byte(i%251))
			}

			var wg sync.WaitGroup
			results := make([][]byte, 4)
			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func(slot int) {
					defer wg.Done()
					data, _ := io.ReadAll(broadcast.NewReader())
					results[slot] = data
				}(i)
			}

			go func() {
				_, err := producer.ReadFrom(bytes.NewReader(expected))
				producer.Close(err)
			}()

			wg.Wait()
			for _, data := range results {
				g.Assert(data).Equal(expected)
			}
		})
	})
}

func TestProducerReadFrom(t *testing.T) {
	g := Goblin(t)

	g.Describe("Producer.ReadFrom", func() {
		g.It("Should copy the whole source and report io.EOF", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()

			n, err := producer.ReadFrom(bytes.NewReader([]byte("payload")))

			g.Assert(err).Equal(io.EOF)
			g.Assert(n).Equal(int64(7))
			g.Assert(broadcast.Len()).Equal(7)
		})

		g.It("Should stop copying when the broadcast is closed underneath", func() {
			broadcast := NewBroadcaster()
			producer := broadcast.Producer()
			other := broadcast.Producer()

			other.Close(nil)
			_, err := producer.ReadFrom(bytes.NewReader([]byte("payload")))

			g.Assert(err).Equal(ErrStreamClosedForWriting)
		})
	})
}
