package pagedscope

import (
	"context"
	"fmt"
	"strconv"
)

// PageSet partitions a scope into pages of a fixed size.
type PageSet[T any] struct {
	base    Scope[T]
	perPage int
	name    string
}

// WithName returns a copy of the page set with the given page model name.
func (p *PageSet[T]) WithName(name string) *PageSet[T] {
	ret := *p
	if name != "" {
		ret.name = name
	}

	return &ret
}

// Name returns the page model name, "Page" unless configured.
func (p *PageSet[T]) Name() string {
	return p.name
}

func (p *PageSet[T]) PerPage() int {
	return p.perPage
}

// Scope returns the scope being paged.
func (p *PageSet[T]) Scope() Scope[T] {
	return p.base
}

// Count returns the number of rows in the paged scope.
func (p *PageSet[T]) Count(ctx context.Context) (int, error) {
	return p.base.Count(ctx)
}

// PageCount returns ceil(count / perPage). An empty scope still has one
// (empty) page.
func (p *PageSet[T]) PageCount(ctx context.Context) (int, error) {
	count, err := p.Count(ctx)
	if err != nil {
		return 0, err
	}

	return p.pageCount(count), nil
}

// Find returns the page with the given 1-based number.
// Returns ErrOutOfRange unless 1 <= number <= PageCount.
func (p *PageSet[T]) Find(ctx context.Context, number int) (*Page[T], error) {
	pageCount, err := p.PageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot find page %d: %w", number, err)
	}

	return p.find(number, pageCount)
}

func (p *PageSet[T]) First(ctx context.Context) (*Page[T], error) {
	return p.Find(ctx, 1)
}

func (p *PageSet[T]) Last(ctx context.Context) (*Page[T], error) {
	pageCount, err := p.PageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot find last page: %w", err)
	}

	return p.find(pageCount, pageCount)
}

// FindByEntity returns the page containing entity. Returns ErrNotFound if the
// entity is not part of the paged scope.
func (p *PageSet[T]) FindByEntity(ctx context.Context, entity T) (*Page[T], error) {
	rank, err := p.base.RankOf(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("cannot find page by entity: %w", err)
	}

	return p.Find(ctx, rank/p.perPage+1)
}

func (p *PageSet[T]) find(number, pageCount int) (*Page[T], error) {
	if number < 1 || number > pageCount {
		return nil, fmt.Errorf("page %d of %d: %w", number, pageCount, ErrOutOfRange)
	}

	return &Page[T]{
		set:       p,
		number:    number,
		pageCount: pageCount,
	}, nil
}

func (p *PageSet[T]) pageCount(count int) int {
	return max((count+p.perPage-1)/p.perPage, 1)
}

// Page is one page of a PageSet. The page count is captured when the page is
// looked up, so walking between pages needs no further queries.
type Page[T any] struct {
	set       *PageSet[T]
	number    int
	pageCount int

	paginator *Paginator[T]
}

// Number returns the 1-based page number.
func (p *Page[T]) Number() int {
	return p.number
}

func (p *Page[T]) PageCount() int {
	return p.pageCount
}

func (p *Page[T]) Set() *PageSet[T] {
	return p.set
}

// Param returns the page number formatted for use in a path.
func (p *Page[T]) Param() string {
	return strconv.Itoa(p.number)
}

func (p *Page[T]) IsFirst() bool {
	return p.number == 1
}

func (p *Page[T]) IsLast() bool {
	return p.number == p.pageCount
}

// Offset returns the page delta pages away, or nil if there is no such page.
func (p *Page[T]) Offset(delta int) *Page[T] {
	number := p.number + delta
	if number < 1 || number > p.pageCount {
		return nil
	}

	if delta == 0 {
		return p
	}

	return &Page[T]{
		set:       p.set,
		number:    number,
		pageCount: p.pageCount,
	}
}

func (p *Page[T]) Next() *Page[T] {
	return p.Offset(1)
}

func (p *Page[T]) Previous() *Page[T] {
	return p.Offset(-1)
}

// Equal reports whether both pages belong to the same page set and have the
// same number.
func (p *Page[T]) Equal(other *Page[T]) bool {
	if p == nil || other == nil {
		return p == other
	}

	return p.set == other.set && p.number == other.number
}

// Scope returns the base scope narrowed to the rows of this page.
func (p *Page[T]) Scope() Scope[T] {
	return p.set.base.Narrow(p.set.perPage, (p.number-1)*p.set.perPage)
}

// Items fetches the rows of this page.
func (p *Page[T]) Items(ctx context.Context) ([]*Record[T], error) {
	items, err := p.Scope().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch page %d: %w", p.number, err)
	}

	return items, nil
}

// Paginator returns the page's paginator, creating it on first use.
// The lazy creation makes a Page unsafe for concurrent use without external
// synchronisation.
func (p *Page[T]) Paginator() *Paginator[T] {
	if p.paginator == nil {
		p.paginator = &Paginator[T]{page: p}
	}

	return p.paginator
}
