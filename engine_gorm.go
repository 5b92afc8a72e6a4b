package pagedscope

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormOptions struct {
	logger   *slog.Logger
	distinct bool
	columns  []string
}

// GORMOption configures a GORMEngine.
type GORMOption func(o *gormOptions)

// WithGORMLogger sets the logger receiving debug records for every query.
func WithGORMLogger(l *slog.Logger) GORMOption {
	return func(o *gormOptions) {
		o.logger = l
	}
}

// WithGORMDistinctRows makes fetches select distinct rows. Use it when joins
// in the base query fan out, so that pages are cut over the same rows that
// ranks are counted over. Columns default to "<key table>.*", e.g.
// "articles.*" for the key "articles.id".
func WithGORMDistinctRows(columns ...string) GORMOption {
	return func(o *gormOptions) {
		o.distinct = true
		o.columns = append(o.columns, columns...)
	}
}

// GORMEngine runs scopes against a gorm query. The base query carries the
// model or table, joins and conditions; it must not carry ordering, limit or
// offset, which belong to the Scope. Nor should it select distinct rows: use
// WithGORMDistinctRows instead, which leaves counts over distinct keys intact.
//
// Usage:
//
//	engine := pagedscope.NewGORMEngine(
//		db.Model(&Article{}).Where("articles.title IS NOT NULL"),
//		"articles.id",
//		func(a Article) any { return a.ID },
//	)
type GORMEngine[T any] struct {
	db     *gorm.DB
	key    string
	keyOf  func(T) any
	logger *slog.Logger

	distinctColumns []string
}

func NewGORMEngine[T any](db *gorm.DB, key string, keyOf func(T) any, opts ...GORMOption) *GORMEngine[T] {
	o := gormOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ret := &GORMEngine[T]{
		db:     db,
		key:    key,
		keyOf:  keyOf,
		logger: o.logger,
	}

	if o.distinct {
		ret.distinctColumns = o.columns
		if len(ret.distinctColumns) == 0 {
			ret.distinctColumns = []string{keyTable(key) + "*"}
		}
	}

	return ret
}

// Key - implements Engine.
func (e *GORMEngine[T]) Key() string {
	return e.key
}

// KeyOf - implements Engine.
func (e *GORMEngine[T]) KeyOf(entity T) any {
	return e.keyOf(entity)
}

// Count - implements Engine.
func (e *GORMEngine[T]) Count(ctx context.Context, q Query) (int64, error) {
	start := time.Now()

	tx := e.where(e.db.WithContext(ctx), q.Where)
	if q.Distinct {
		tx = tx.Distinct(e.key)
	}

	var ret int64
	if err := tx.Count(&ret).Error; err != nil {
		return 0, fmt.Errorf("gorm count: %w", err)
	}

	e.log(ctx, "count", q, start, slog.Int64("count", ret))

	return ret, nil
}

// Fetch - implements Engine.
func (e *GORMEngine[T]) Fetch(ctx context.Context, q Query) ([]T, error) {
	start := time.Now()

	tx := e.where(e.db.WithContext(ctx), q.Where)
	if len(e.distinctColumns) > 0 {
		tx = tx.Distinct(lo.ToAnySlice(e.distinctColumns)...)
	}
	if len(q.Order) > 0 {
		tx = q.Order.Apply(tx)
	}
	if q.IsLimited() {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var ret []T
	if err := tx.Find(&ret).Error; err != nil {
		return nil, fmt.Errorf("gorm fetch: %w", err)
	}

	e.log(ctx, "fetch", q, start, slog.Int("rows", len(ret)))

	return ret, nil
}

// Locate - implements Engine.
func (e *GORMEngine[T]) Locate(ctx context.Context, key any, columns []string) (ret []any, err error) {
	start := time.Now()

	selects := lo.Map(columns, func(column string, n int) string {
		return fmt.Sprintf("%s AS order_attribute_%d", column, n)
	})

	rows, err := e.db.WithContext(ctx).
		Select(strings.Join(selects, ", ")).
		Where(clause.Eq{Column: e.key, Value: key}).
		Limit(1).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("gorm locate: %w", translateNotFound(err))
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("gorm locate: %w", err)
		}
		return nil, fmt.Errorf("key %v: %w", key, ErrNotFound)
	}

	ret = make([]any, len(columns))
	dest := lo.Map(ret, func(_ any, n int) any { return &ret[n] })
	if err = rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("gorm locate scan: %w", err)
	}

	e.logger.DebugContext(ctx, "pagedscope: gorm locate",
		slog.Any("key", key),
		slog.Any("columns", columns),
		slog.Duration("elapsed", time.Since(start)),
	)

	return ret, nil
}

func (e *GORMEngine[T]) where(tx *gorm.DB, p Predicate) *gorm.DB {
	if expr := GORMExpression(p); expr != nil {
		return tx.Clauses(expr)
	}

	return tx
}

func (e *GORMEngine[T]) log(ctx context.Context, op string, q Query, start time.Time, attrs ...slog.Attr) {
	if !e.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	where := ""
	if q.Where != nil {
		where, _ = q.Where.ToSQL()
	}

	attrs = append(attrs,
		slog.String("where", where),
		slog.Int("limit", q.Limit),
		slog.Int("offset", q.Offset),
		slog.Duration("elapsed", time.Since(start)),
	)
	e.logger.LogAttrs(ctx, slog.LevelDebug, "pagedscope: gorm "+op, attrs...)
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.ToSQL())
}

// keyTable returns the "table." qualifier of a key column, or "" when the key
// is not qualified.
func keyTable(key string) string {
	if n := strings.LastIndexByte(key, '.'); n >= 0 {
		return key[:n+1]
	}

	return ""
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}

var _ Engine[struct{}] = (*GORMEngine[struct{}])(nil)
