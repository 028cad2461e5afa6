package history

import (
	"context"
	"fmt"
)

// Source produces the raw messages of commits reachable from HEAD but not
// from a given ref, newest first.
type Source interface {
	Messages(ctx context.Context, from string) (*Stream, error)
}

// Stream is a forward-only sequence of commit messages fed by a producer
// goroutine. Callers loop on Next, read Message, then check Err once Next
// returns false.
type Stream struct {
	messages <-chan string
	cancel   context.CancelFunc
	current  string
	err      error
}

type emitFunc func(message string) bool

// newStream starts produce in its own goroutine. emit blocks until the
// consumer takes the message and returns false once ctx is done.
func newStream(ctx context.Context, produce func(ctx context.Context, emit emitFunc) error) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan string)
	s := &Stream{messages: ch, cancel: cancel}

	go func() {
		defer close(ch)
		s.err = produce(ctx, func(message string) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case ch <- message:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return s
}

func (s *Stream) Next() bool {
	message, ok := <-s.messages
	if !ok {
		s.cancel()
		return false
	}
	s.current = message
	return true
}

func (s *Stream) Message() string {
	return s.current
}

// Err returns the producer's terminal error. Only valid after Next returned false.
func (s *Stream) Err() error {
	return s.err
}

// Close stops the producer and waits for it to exit.
func (s *Stream) Close() {
	s.cancel()
	for range s.messages {
	}
}

// NewSource picks the history backend named in the settings file.
func NewSource(backend, dir string) (Source, error) {
	switch backend {
	case "", "gogit":
		return GoGitSource{Dir: dir}, nil
	case "exec":
		return ExecSource{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unsupported range backend %q", backend)
	}
}
