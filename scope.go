package pagedscope

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// Scope is an immutable filtered, ordered and optionally windowed view of an
// Engine. Every method that narrows a scope returns a new value.
type Scope[T any] struct {
	engine Engine[T]
	order  Orderings
	limit  int
	offset int
}

// NewScope returns an unlimited scope over engine ordered by order. The
// engine key is appended as a final ascending term unless order already
// contains it, which makes the ordering total.
func NewScope[T any](engine Engine[T], order Orderings) (Scope[T], error) {
	order = order.WithTieBreak(engine.Key())
	if err := order.validate(); err != nil {
		return Scope[T]{}, fmt.Errorf("cannot create scope: %w: %w", ErrInvalidArgument, err)
	}

	return Scope[T]{
		engine: engine,
		order:  order,
		limit:  NoLimit,
	}, nil
}

// NewScopeFromClause is NewScope with the ordering given as an SQL-like clause,
// e.g. "users.name DESC, articles.title".
func NewScopeFromClause[T any](engine Engine[T], clause string) (Scope[T], error) {
	order, err := ParseOrder(clause)
	if err != nil {
		return Scope[T]{}, fmt.Errorf("cannot create scope: %w", err)
	}

	return NewScope(engine, order)
}

func (s Scope[T]) Engine() Engine[T] {
	return s.engine
}

// Order returns a copy of the scope ordering, tie-break included.
func (s Scope[T]) Order() Orderings {
	return append(Orderings(nil), s.order...)
}

// Limit returns the window size or NoLimit.
func (s Scope[T]) Limit() int {
	return s.limit
}

func (s Scope[T]) Offset() int {
	return s.offset
}

func (s Scope[T]) IsLimited() bool {
	return s.limit != NoLimit
}

// Window returns a copy of the scope restricted to limit rows starting at
// offset. Pass NoLimit to drop the window; the offset is then ignored.
func (s Scope[T]) Window(limit, offset int) (Scope[T], error) {
	if limit == NoLimit {
		s.limit, s.offset = NoLimit, 0
		return s, nil
	}

	if limit < 0 || offset < 0 {
		return s, fmt.Errorf("invalid window limit=%d offset=%d: %w", limit, offset, ErrInvalidArgument)
	}

	s.limit, s.offset = limit, offset

	return s, nil
}

// Narrow returns the sub-window of at most limit rows starting offset rows
// into the current window. It never widens an already limited scope.
func (s Scope[T]) Narrow(limit, offset int) Scope[T] {
	limit, offset = max(limit, 0), max(offset, 0)

	if s.IsLimited() {
		limit = min(limit, max(s.limit-offset, 0))
	}

	s.offset += offset
	s.limit = limit

	return s
}

// Count returns the number of rows in the scope: the filtered row count,
// reduced to the limit/offset window when the scope is limited.
func (s Scope[T]) Count(ctx context.Context) (int, error) {
	total, err := s.engine.Count(ctx, Query{Limit: NoLimit, Distinct: true})
	if err != nil {
		return 0, fmt.Errorf("cannot count scope: %w", err)
	}

	if !s.IsLimited() {
		return int(total), nil
	}

	return max(min(s.limit, int(total)-s.offset), 0), nil
}

// All fetches every row of the scope. Each record remembers the scope so it
// can navigate to its neighbours.
func (s Scope[T]) All(ctx context.Context) ([]*Record[T], error) {
	items, err := s.engine.Fetch(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("cannot fetch scope: %w", err)
	}

	return lo.Map(items, func(item T, _ int) *Record[T] {
		return s.Attach(item)
	}), nil
}

// First returns the first row of the scope, or nil when the scope is empty.
func (s Scope[T]) First(ctx context.Context) (*Record[T], error) {
	return s.At(ctx, 0)
}

// Last returns the last row of the scope, or nil when the scope is empty.
func (s Scope[T]) Last(ctx context.Context) (*Record[T], error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	return s.At(ctx, count-1)
}

// At returns the row at the zero-based position index within the scope, or
// nil when there is none.
func (s Scope[T]) At(ctx context.Context, index int) (*Record[T], error) {
	if index < 0 || (s.IsLimited() && index >= s.limit) {
		return nil, nil
	}

	items, err := s.engine.Fetch(ctx, Query{
		Order:  s.order,
		Limit:  1,
		Offset: s.offset + index,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot fetch scope row %d: %w", index, err)
	}

	if len(items) == 0 {
		return nil, nil
	}

	return s.Attach(items[0]), nil
}

// Attach binds an entity fetched elsewhere to the scope, as if the scope had
// produced it.
func (s Scope[T]) Attach(entity T) *Record[T] {
	return &Record[T]{
		Value: entity,
		scope: s,
	}
}

// Pages partitions the scope into pages of perPage rows. A non-positive
// perPage falls back to DefaultPerPage.
func (s Scope[T]) Pages(perPage int) *PageSet[T] {
	return &PageSet[T]{
		base:    s,
		perPage: lo.Ternary(perPage > 0, perPage, DefaultPerPage),
		name:    DefaultPageName,
	}
}

func (s Scope[T]) query() Query {
	return Query{
		Order:  s.order,
		Limit:  s.limit,
		Offset: s.offset,
	}
}
