package lsb

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTerminator = errors.New("terminator must not be empty")
	ErrInvalidWorkers  = errors.New("workers must be positive")
)

type Option func(*Stego) error

// WithTerminator replaces the end marker appended to every message.
// Embedder and extractor must use the same terminator.
func WithTerminator(term string) Option {
	return func(s *Stego) error {
		if term == "" {
			return ErrEmptyTerminator
		}
		s.terminator = []byte(term)
		return nil
	}
}

// WithWorkers splits the embedded channel range into n contiguous segments
// written by separate goroutines. Each channel takes the stream bit with its own index,
// so the output does not depend on n.
func WithWorkers(n int) Option {
	return func(s *Stego) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidWorkers, n)
		}
		s.workers = n
		return nil
	}
}
