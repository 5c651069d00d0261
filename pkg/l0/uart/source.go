package uart

import (
	"context"
	"io"
	"os"
)

// Source is a byte input which never blocks.
type Source interface {
	// TryReadByte returns the next byte if one is available.
	// It returns ErrNoData immediately if nothing can be read now.
	// Any other error means the input is broken.
	TryReadByte() (byte, error)
}

// ReaderSource adapts an io.Reader which already supports read timeout,
// e.g. a serial port with a short read timeout configured.
// A read returning nothing or timing out means no data.
type ReaderSource struct {
	Reader io.Reader

	buf [1]byte
}

// NewReaderSource creates a ReaderSource.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{Reader: r}
}

// TryReadByte implements Source.
func (s *ReaderSource) TryReadByte() (byte, error) {
	n, err := s.Reader.Read(s.buf[:])
	if n > 0 {
		return s.buf[0], nil
	}
	if err == nil || os.IsTimeout(err) {
		return 0, ErrNoData
	}
	return 0, err
}

// StreamSource adapts a blocking io.Reader (a socket, stdin).
// Bytes are read in the background by Run and handed over one at a
// time without extra buffering.
type StreamSource struct {
	Reader io.Reader

	byteCh chan byte
	err    error
}

const streamChunkSize = 256

// NewStreamSource creates a StreamSource. Run must be running for
// TryReadByte to see any data.
func NewStreamSource(r io.Reader) *StreamSource {
	return &StreamSource{Reader: r, byteCh: make(chan byte)}
}

// TryReadByte implements Source.
// After the reader fails, remaining bytes are still returned first,
// then the read error.
func (s *StreamSource) TryReadByte() (byte, error) {
	select {
	case b, ok := <-s.byteCh:
		if !ok {
			return 0, s.err
		}
		return b, nil
	default:
		return 0, ErrNoData
	}
}

// Run implements Runnable.
// If the reader is an io.Closer, it's closed when ctx is done so that
// a pending Read is released.
func (s *StreamSource) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readLoop(ctx)
	}()
	select {
	case <-done:
		return s.err
	case <-ctx.Done():
		if closer, ok := s.Reader.(io.Closer); ok {
			closer.Close()
		}
		return ctx.Err()
	}
}

func (s *StreamSource) readLoop(ctx context.Context) {
	defer close(s.byteCh)
	buf := make([]byte, streamChunkSize)
	for {
		n, err := s.Reader.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.byteCh <- b:
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
		if err != nil {
			s.err = err
			return
		}
	}
}
