package pagedscope

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// PathFunc resolves the destination of a page link, typically a URL.
type PathFunc[T any] func(page *Page[T]) string

// SlotKind identifies what a window slot stands for.
type SlotKind string

const (
	SlotPage      SlotKind = "page"
	SlotFirst     SlotKind = "first"
	SlotPrevious  SlotKind = "previous"
	SlotNext      SlotKind = "next"
	SlotLast      SlotKind = "last"
	SlotSeparator SlotKind = "separator"
)

func (k SlotKind) isExtra() bool {
	return k == SlotFirst || k == SlotPrevious || k == SlotNext || k == SlotLast
}

// Slot is one element of a pagination window.
type Slot[T any] struct {
	Kind SlotKind
	// Page is the destination page; nil for separators.
	Page *Page[T]
	// Path is nil when the slot has no destination: the current page, a
	// separator, or a sentinel pointing past the first or last page.
	Path *string
	// Selected marks the current page.
	Selected bool
	// GapBefore and GapAfter mark numbered pages whose neighbour in the
	// window is not adjacent.
	GapBefore bool
	GapAfter  bool
}

// WindowOptions configures Paginator.Slots and Window.
type WindowOptions struct {
	// Inner is the number of pages shown on each side of the current page.
	// Required.
	Inner int
	// Outer is the number of pages pinned at each end.
	Outer int
	// Extras lists the sentinel slots to emit: any of SlotFirst,
	// SlotPrevious, SlotNext, SlotLast.
	Extras []SlotKind
}

func (o WindowOptions) validate() error {
	if o.Inner <= 0 {
		return fmt.Errorf("window inner size must be positive, got %d: %w", o.Inner, ErrInvalidArgument)
	}

	if o.Outer < 0 {
		return fmt.Errorf("window outer size must not be negative, got %d: %w", o.Outer, ErrInvalidArgument)
	}

	for _, extra := range o.Extras {
		if !extra.isExtra() {
			return fmt.Errorf("unexpected window extra '%s': %w", extra, ErrInvalidArgument)
		}
	}

	return nil
}

// Paginator builds navigation for a page. Destinations are resolved by the
// path function set with SetPath.
type Paginator[T any] struct {
	page *Page[T]
	path PathFunc[T]
}

// SetPath sets the path function. A later call replaces the earlier one.
func (p *Paginator[T]) SetPath(path PathFunc[T]) *Paginator[T] {
	p.path = path

	return p
}

func (p *Paginator[T]) Page() *Page[T] {
	return p.page
}

// Next returns the path of the next page, or nil on the last page.
func (p *Paginator[T]) Next() (*string, error) {
	if p.path == nil {
		return nil, ErrPathNotSet
	}

	return p.resolve(p.page.Next()), nil
}

// Previous returns the path of the previous page, or nil on the first page.
func (p *Paginator[T]) Previous() (*string, error) {
	if p.path == nil {
		return nil, ErrPathNotSet
	}

	return p.resolve(p.page.Previous()), nil
}

// Slots returns the window around the current page.
func (p *Paginator[T]) Slots(opts WindowOptions) ([]Slot[T], error) {
	return Window(p, opts, func(slot Slot[T]) Slot[T] { return slot })
}

// Window walks the window around the paginator's page and returns what render
// produced for each slot, in order:
//
//	first, previous, numbered pages (separators between gaps), next, last
//
// Numbered pages are the current page with opts.Inner pages on each side plus
// opts.Outer pages at each end, clipped to the existing pages.
func Window[T, R any](p *Paginator[T], opts WindowOptions, render func(Slot[T]) R) ([]R, error) {
	if render == nil {
		return nil, fmt.Errorf("no window render function supplied: %w", ErrInvalidArgument)
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	if p.path == nil {
		return nil, ErrPathNotSet
	}

	page := p.page
	numbers := p.windowNumbers(opts)
	ret := make([]R, 0, len(numbers)+len(opts.Extras)+2)

	emitExtra := func(kind SlotKind, target *Page[T], atBoundary bool) {
		if !slices.Contains(opts.Extras, kind) {
			return
		}

		slot := Slot[T]{Kind: kind, Page: target}
		if !atBoundary {
			slot.Path = p.resolve(target)
		}

		ret = append(ret, render(slot))
	}

	emitExtra(SlotFirst, page.Offset(1-page.number), page.IsFirst())
	emitExtra(SlotPrevious, page.Previous(), page.IsFirst())

	for i, number := range numbers {
		gapBefore := i > 0 && numbers[i-1] < number-1
		gapAfter := i < len(numbers)-1 && numbers[i+1] > number+1

		if gapBefore {
			ret = append(ret, render(Slot[T]{Kind: SlotSeparator}))
		}

		target := page.Offset(number - page.number)
		slot := Slot[T]{
			Kind:      SlotPage,
			Page:      target,
			Selected:  number == page.number,
			GapBefore: gapBefore,
			GapAfter:  gapAfter,
		}
		if !slot.Selected {
			slot.Path = p.resolve(target)
		}

		ret = append(ret, render(slot))
	}

	emitExtra(SlotNext, page.Next(), page.IsLast())
	emitExtra(SlotLast, page.Offset(page.pageCount-page.number), page.IsLast())

	return ret, nil
}

func (p *Paginator[T]) windowNumbers(opts WindowOptions) []int {
	current, pageCount := p.page.number, p.page.pageCount

	numbers := make([]int, 0, 2*opts.Inner+1+2*opts.Outer)
	for n := current - opts.Inner; n <= current+opts.Inner; n++ {
		numbers = append(numbers, n)
	}
	for n := 1; n <= opts.Outer; n++ {
		numbers = append(numbers, n, pageCount-n+1)
	}

	numbers = lo.Uniq(lo.Filter(numbers, func(n int, _ int) bool {
		return n >= 1 && n <= pageCount
	}))
	slices.Sort(numbers)

	return numbers
}

func (p *Paginator[T]) resolve(page *Page[T]) *string {
	if page == nil {
		return nil
	}

	return lo.ToPtr(p.path(page))
}
