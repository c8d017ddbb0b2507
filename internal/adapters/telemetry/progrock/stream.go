package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

const streamBuffer = 256

var _ progrock.Writer = (*Stream)(nil)

// Stream is the in-process transport between the recorder and the
// terminal UI. WriteStatus never blocks; when the consumer lags, updates
// are dropped rather than stalling a running phase.
type Stream struct {
	mu     sync.Mutex
	closed bool
	ch     chan *progrock.StatusUpdate
}

// NewStream creates a new Stream.
func NewStream() *Stream {
	return &Stream{ch: make(chan *progrock.StatusUpdate, streamBuffer)}
}

// WriteStatus publishes one status update to the consumer.
func (s *Stream) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	select {
	case s.ch <- update:
	default:
	}
	return nil
}

// Close ends the stream. The consumer sees io.EOF after draining.
// Closing twice is safe.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}

// Read blocks until the next update or the end of the stream.
func (s *Stream) Read() (*progrock.StatusUpdate, error) {
	update, ok := <-s.ch
	if !ok {
		return nil, io.EOF
	}
	return update, nil
}
