// Package sqlengine runs pagedscope scopes against database/sql with queries
// built by squirrel and rows scanned by scany.
//
// Example usage:
//
//	engine := sqlengine.New(db, "articles", "articles.id",
//		func(a Article) any { return a.ID },
//		sqlengine.WithJoin("users ON users.id = articles.user_id"),
//		sqlengine.WithFilter(sq.NotEq{"users.name": nil}),
//	)
//	scope, err := pagedscope.NewScopeFromClause[Article](engine, "users.name DESC")
package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alp4ka/pagedscope"
	"github.com/georgysavva/scany/v2/sqlscan"
	sq "github.com/n-r-w/squirrel"
	"github.com/samber/lo"
)

// Querier is a subset of sql.DB, sql.Conn and sql.Tx for queries.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Engine implements pagedscope.Engine over database/sql. T must be scannable
// by scany from the selected columns.
type Engine[T any] struct {
	db      Querier
	from    string
	key     string
	keyOf   func(T) any
	opts    options
	builder sq.StatementBuilderType
}

// New returns an engine selecting from the table from, keyed by the unique
// column key.
func New[T any](db Querier, from, key string, keyOf func(T) any, opts ...Option) *Engine[T] {
	o := options{
		placeholder: sq.Question,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.columns) == 0 {
		o.columns = []string{from + ".*"}
	}

	return &Engine[T]{
		db:      db,
		from:    from,
		key:     key,
		keyOf:   keyOf,
		opts:    o,
		builder: sq.StatementBuilder.PlaceholderFormat(o.placeholder),
	}
}

// Key - implements pagedscope.Engine.
func (e *Engine[T]) Key() string {
	return e.key
}

// KeyOf - implements pagedscope.Engine.
func (e *Engine[T]) KeyOf(entity T) any {
	return e.keyOf(entity)
}

// Count - implements pagedscope.Engine.
func (e *Engine[T]) Count(ctx context.Context, q pagedscope.Query) (int64, error) {
	column := lo.Ternary(q.Distinct, fmt.Sprintf("COUNT(DISTINCT %s)", e.key), "COUNT(*)")

	builder, err := e.selectBuilder(q.Where, column)
	if err != nil {
		return 0, fmt.Errorf("sqlengine.Count: %w", err)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("sqlengine.Count to sql: %w", err)
	}

	start := time.Now()

	var ret int64
	if err = sqlscan.Get(ctx, e.db, &ret, query, args...); err != nil {
		return 0, fmt.Errorf("sql count: %w [%s]", err, query)
	}

	e.debug(ctx, "count", query, start, slog.Int64("count", ret))

	return ret, nil
}

// Fetch - implements pagedscope.Engine.
func (e *Engine[T]) Fetch(ctx context.Context, q pagedscope.Query) ([]T, error) {
	builder, err := e.selectBuilder(q.Where, e.opts.columns...)
	if err != nil {
		return nil, fmt.Errorf("sqlengine.Fetch: %w", err)
	}

	if e.opts.distinct {
		builder = builder.Distinct()
	}
	if len(q.Order) > 0 {
		builder = builder.OrderBy(q.Order.ToSQLSlice()...)
	}
	if q.IsLimited() {
		builder = builder.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		builder = builder.Offset(uint64(q.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlengine.Fetch to sql: %w", err)
	}

	start := time.Now()

	var ret []T
	if err = sqlscan.Select(ctx, e.db, &ret, query, args...); err != nil {
		return nil, fmt.Errorf("sql select: %w [%s]", err, query)
	}

	e.debug(ctx, "fetch", query, start, slog.Int("rows", len(ret)))

	return ret, nil
}

// Locate - implements pagedscope.Engine.
func (e *Engine[T]) Locate(ctx context.Context, key any, columns []string) (ret []any, err error) {
	selects := lo.Map(columns, func(column string, n int) string {
		return fmt.Sprintf("%s AS order_attribute_%d", column, n)
	})

	builder, err := e.selectBuilder(nil, selects...)
	if err != nil {
		return nil, fmt.Errorf("sqlengine.Locate: %w", err)
	}

	query, args, err := builder.Where(sq.Eq{e.key: key}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlengine.Locate to sql: %w", err)
	}

	start := time.Now()

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sql locate: %w [%s]", err, query)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("sql rows: %w [%s]", err, query)
		}
		return nil, fmt.Errorf("key %v: %w", key, pagedscope.ErrNotFound)
	}

	ret = make([]any, len(columns))
	dest := lo.Map(ret, func(_ any, n int) any { return &ret[n] })
	if err = rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("sql locate scan: %w [%s]", err, query)
	}

	e.debug(ctx, "locate", query, start, slog.Any("key", key))

	return ret, nil
}

func (e *Engine[T]) selectBuilder(where pagedscope.Predicate, columns ...string) (sq.SelectBuilder, error) {
	builder := e.builder.Select(columns...).From(e.from)

	for _, join := range e.opts.joins {
		builder = builder.Join(join)
	}

	if e.opts.filter != nil {
		builder = builder.Where(e.opts.filter)
	}

	cond, err := Sqlizer(where)
	if err != nil {
		return builder, err
	}
	if cond != nil {
		builder = builder.Where(cond)
	}

	return builder, nil
}

func (e *Engine[T]) debug(ctx context.Context, op, query string, start time.Time, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("sql", query),
		slog.Duration("elapsed", time.Since(start)),
	)
	e.opts.logger.LogAttrs(ctx, slog.LevelDebug, "pagedscope: sqlengine "+op, attrs...)
}

var _ pagedscope.Engine[struct{}] = (*Engine[struct{}])(nil)
