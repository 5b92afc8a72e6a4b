package pagedscope

import "context"

//go:generate mockgen -source engine.go -destination engine_mock_test.go -package pagedscope

// Engine is the query engine a Scope runs against. The engine owns the
// filter (tables, joins, conditions); the scope owns ordering and the
// limit/offset window.
//
// Implementations: GORMEngine and sqlengine.Engine.
type Engine[T any] interface {
	// Key returns the unique-key column used as the ordering tie-break,
	// e.g. "articles.id".
	Key() string

	// KeyOf returns the unique key of an entity.
	KeyOf(entity T) any

	// Count returns the number of filtered rows that also match q.Where.
	// With q.Distinct the count is taken over distinct keys, which keeps
	// joins that fan out from inflating it.
	Count(ctx context.Context, q Query) (int64, error)

	// Fetch returns filtered rows ordered by q.Order within the q.Limit/q.Offset
	// window.
	Fetch(ctx context.Context, q Query) ([]T, error)

	// Locate returns the values of columns for the filtered row with the given
	// key, in column order. Returns ErrNotFound if no such row passes the filter.
	Locate(ctx context.Context, key any, columns []string) ([]any, error)
}

// Query is a single count or fetch request passed to an Engine.
type Query struct {
	// Where is an extra condition combined with the engine's filter by AND.
	// May be nil.
	Where Predicate
	// Order is applied to fetches.
	Order Orderings
	// Limit is NoLimit or the maximum number of rows to fetch.
	Limit int
	// Offset is the number of rows to skip.
	Offset int
	// Distinct requests counting distinct keys.
	Distinct bool
}

// IsLimited reports whether q carries a row limit.
func (q Query) IsLimited() bool {
	return q.Limit != NoLimit
}
