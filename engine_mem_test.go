package pagedscope

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

type tArticle struct {
	ID    int64
	Score int64
	Title string
}

func (a tArticle) column(name string) any {
	switch name {
	case "id":
		return a.ID
	case "score":
		return a.Score
	case "title":
		return a.Title
	default:
		panic(fmt.Sprintf("unknown column %q", name))
	}
}

// memEngine evaluates queries over a slice so that scope arithmetic can be
// checked without a database.
type memEngine struct {
	rows   []tArticle
	filter func(tArticle) bool

	counts, fetches, locates int
}

func newMemEngine(rows []tArticle) *memEngine {
	return &memEngine{rows: rows}
}

func (e *memEngine) Key() string { return "id" }

func (e *memEngine) KeyOf(a tArticle) any { return a.ID }

func (e *memEngine) Count(_ context.Context, q Query) (int64, error) {
	e.counts++

	return int64(len(e.matching(q.Where))), nil
}

func (e *memEngine) Fetch(_ context.Context, q Query) ([]tArticle, error) {
	e.fetches++

	rows := e.matching(q.Where)
	slices.SortStableFunc(rows, func(a, b tArticle) int {
		for _, o := range q.Order {
			c := compareValues(a.column(o.Column), b.column(o.Column))
			if o.Direction == DirectionDESC {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	if q.Offset >= len(rows) {
		return nil, nil
	}
	rows = rows[q.Offset:]
	if q.IsLimited() && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}

	return rows, nil
}

func (e *memEngine) Locate(_ context.Context, key any, columns []string) ([]any, error) {
	e.locates++

	for _, row := range e.matching(nil) {
		if row.ID != key {
			continue
		}

		ret := make([]any, 0, len(columns))
		for _, column := range columns {
			ret = append(ret, row.column(column))
		}
		return ret, nil
	}

	return nil, fmt.Errorf("key %v: %w", key, ErrNotFound)
}

func (e *memEngine) remove(id int64) {
	e.rows = slices.DeleteFunc(e.rows, func(a tArticle) bool { return a.ID == id })
}

func (e *memEngine) queries() int {
	return e.counts + e.fetches + e.locates
}

func (e *memEngine) matching(where Predicate) []tArticle {
	ret := make([]tArticle, 0, len(e.rows))
	for _, row := range e.rows {
		if e.filter != nil && !e.filter(row) {
			continue
		}
		if where != nil && !evaluate(where, row) {
			continue
		}
		ret = append(ret, row)
	}

	return ret
}

func evaluate(p Predicate, row tArticle) bool {
	switch pt := p.(type) {
	case Comparison:
		c := compareValues(row.column(pt.Column), pt.Value)
		switch pt.Operator {
		case OperatorLT:
			return c < 0
		case OperatorGT:
			return c > 0
		default:
			return c == 0
		}
	case Conjunction:
		for _, operand := range pt {
			if !evaluate(operand, row) {
				return false
			}
		}
		return true
	case Disjunction:
		for _, operand := range pt {
			if evaluate(operand, row) {
				return true
			}
		}
		return false
	default:
		panic(fmt.Sprintf("unexpected predicate %T", p))
	}
}

func compareValues(a, b any) int {
	switch at := a.(type) {
	case int64:
		return cmp.Compare(at, b.(int64))
	case string:
		return cmp.Compare(at, b.(string))
	default:
		panic(fmt.Sprintf("unexpected value %T", a))
	}
}

// articles returns n articles with ids 1..n, scores repeating every 4 rows
// and titles repeating every 3 rows, so that orderings produce ties.
func articles(n int) []tArticle {
	ret := make([]tArticle, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, tArticle{
			ID:    int64(i),
			Score: int64(i % 4),
			Title: fmt.Sprintf("title-%d", i%3),
		})
	}

	return ret
}

func mustScope(e Engine[tArticle], clause string) Scope[tArticle] {
	s, err := NewScopeFromClause(e, clause)
	if err != nil {
		panic(err)
	}

	return s
}

func mustWindow(s Scope[tArticle], limit, offset int) Scope[tArticle] {
	s, err := s.Window(limit, offset)
	if err != nil {
		panic(err)
	}

	return s
}

var _ Engine[tArticle] = (*memEngine)(nil)
