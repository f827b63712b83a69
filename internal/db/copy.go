package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// CopyRow is a row that can be fed to COPY, values in column order.
type CopyRow interface {
	CopyValues() []any
}

// ChannelSource feeds COPY from a channel of rows. The producer closes the
// channel when it is done; a cancelled context ends the copy with an error
// so a half-read file is never committed as complete.
type ChannelSource[T CopyRow] struct {
	ctx     context.Context
	ch      <-chan T
	current T
	sent    int64
	err     error
}

// NewChannelSource returns a pgx.CopyFromSource reading from ch until it is
// closed or ctx is done.
func NewChannelSource[T CopyRow](ctx context.Context, ch <-chan T) *ChannelSource[T] {
	return &ChannelSource[T]{ctx: ctx, ch: ch}
}

func (s *ChannelSource[T]) Next() bool {
	select {
	case row, ok := <-s.ch:
		if !ok {
			return false
		}
		s.current = row
		s.sent++
		return true
	case <-s.ctx.Done():
		s.err = s.ctx.Err()
		return false
	}
}

func (s *ChannelSource[T]) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

func (s *ChannelSource[T]) Err() error {
	return s.err
}

// Sent returns how many rows have been handed to COPY so far.
func (s *ChannelSource[T]) Sent() int64 {
	return s.sent
}

var _ pgx.CopyFromSource = (*ChannelSource[CopyRow])(nil)
