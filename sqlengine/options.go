package sqlengine

import (
	"log/slog"

	sq "github.com/n-r-w/squirrel"
)

type options struct {
	columns     []string
	joins       []string
	filter      sq.Sqlizer
	distinct    bool
	placeholder sq.PlaceholderFormat
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(o *options)

// WithColumns sets the selected columns. They must map onto the entity
// fields. Defaults to "<table>.*".
func WithColumns(columns ...string) Option {
	return func(o *options) {
		o.columns = append(o.columns, columns...)
	}
}

// WithJoin adds a join clause, e.g. "users ON users.id = articles.user_id".
func WithJoin(join string) Option {
	return func(o *options) {
		o.joins = append(o.joins, join)
	}
}

// WithFilter adds a condition to the filter. Repeated filters are combined
// with AND.
func WithFilter(filter sq.Sqlizer) Option {
	return func(o *options) {
		if o.filter == nil {
			o.filter = filter
			return
		}
		o.filter = sq.And{o.filter, filter}
	}
}

// WithDistinctRows selects distinct rows. Use it when joins fan out.
func WithDistinctRows() Option {
	return func(o *options) {
		o.distinct = true
	}
}

// WithPlaceholder sets the placeholder format, sq.Question by default.
// Use sq.Dollar for PostgreSQL.
func WithPlaceholder(format sq.PlaceholderFormat) Option {
	return func(o *options) {
		o.placeholder = format
	}
}

// WithLogger sets the logger receiving debug records for every query.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
