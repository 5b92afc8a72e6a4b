package pagedscope

import (
	"context"
	"fmt"
)

// RankOf returns the zero-based position of entity within the scope without
// scanning the rows before it.
//
// The entity's ordering values are read through the scope filter, which also
// proves the entity belongs to it. The rows sorting strictly before those
// values are then counted with a single RankPredicate query, over distinct
// keys and ignoring the scope window. For a limited scope the count is shifted
// by the offset and must land inside [0, limit).
//
// Returns ErrNotFound if the entity does not match the filter or falls
// outside the window.
func (s Scope[T]) RankOf(ctx context.Context, entity T) (int, error) {
	key := s.engine.KeyOf(entity)

	values, err := s.engine.Locate(ctx, key, s.order.Columns())
	if err != nil {
		return 0, fmt.Errorf("cannot rank entity %v: %w", key, err)
	}

	predicate, err := RankPredicate(s.order, values)
	if err != nil {
		return 0, fmt.Errorf("cannot rank entity %v: %w", key, err)
	}

	before, err := s.engine.Count(ctx, Query{
		Where:    predicate,
		Limit:    NoLimit,
		Distinct: true,
	})
	if err != nil {
		return 0, fmt.Errorf("cannot rank entity %v: %w", key, err)
	}

	rank := int(before)
	if s.IsLimited() {
		rank -= s.offset
		if rank < 0 || rank >= s.limit {
			return 0, fmt.Errorf("entity %v is outside of scope window: %w", key, ErrNotFound)
		}
	}

	return rank, nil
}
