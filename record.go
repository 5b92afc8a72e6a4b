package pagedscope

import (
	"context"
	"fmt"
)

// Record is an entity together with the scope that produced it. It knows its
// neighbours within that scope.
//
// Next and Previous memoise their result on the record. A Record is not safe
// for concurrent navigation without external synchronisation.
type Record[T any] struct {
	Value T

	scope Scope[T]

	next, previous           *Record[T]
	nextKnown, previousKnown bool
}

// Scope returns the scope the record was fetched from.
func (r *Record[T]) Scope() Scope[T] {
	return r.scope
}

// Next returns the record right after r in its scope, or nil when r is the
// last one. Returns ErrNotFound if r no longer matches its scope.
func (r *Record[T]) Next(ctx context.Context) (*Record[T], error) {
	if r.nextKnown {
		return r.next, nil
	}

	rank, err := r.scope.RankOf(ctx, r.Value)
	if err != nil {
		return nil, fmt.Errorf("cannot get next record: %w", err)
	}

	next, err := r.scope.At(ctx, rank+1)
	if err != nil {
		return nil, fmt.Errorf("cannot get next record: %w", err)
	}

	r.next, r.nextKnown = next, true
	if next != nil {
		next.previous, next.previousKnown = r, true
	}

	return next, nil
}

// Previous returns the record right before r in its scope, or nil when r is
// the first one. Returns ErrNotFound if r no longer matches its scope.
func (r *Record[T]) Previous(ctx context.Context) (*Record[T], error) {
	if r.previousKnown {
		return r.previous, nil
	}

	rank, err := r.scope.RankOf(ctx, r.Value)
	if err != nil {
		return nil, fmt.Errorf("cannot get previous record: %w", err)
	}

	var previous *Record[T]
	if rank > 0 {
		previous, err = r.scope.At(ctx, rank-1)
		if err != nil {
			return nil, fmt.Errorf("cannot get previous record: %w", err)
		}
	}

	r.previous, r.previousKnown = previous, true
	if previous != nil {
		previous.next, previous.nextKnown = r, true
	}

	return previous, nil
}
