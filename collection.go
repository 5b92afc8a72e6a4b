package pagedscope

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// DefaultPageName is the page model name used when none is configured.
const DefaultPageName = "Page"

// Collection is the per-collection paging configuration read by request
// handlers. For proper code generation, inline it:
//
//	type ArticlesConfig struct {
//	    Paging Collection `json:",inline"`
//	}
type Collection struct {
	// PerPage - number of rows per page, normalized with NormalizePerPage.
	PerPage int `json:"perPage" yaml:"perPage"`
	// PageName - page model name, e.g. "Group". Defaults to "Page".
	PageName string `json:"pageName" yaml:"pageName"`
}

// Normalize returns the configuration with defaults applied.
func (c Collection) Normalize() Collection {
	c.PerPage = NormalizePerPage(c.PerPage)
	if strings.TrimSpace(c.PageName) == "" {
		c.PageName = DefaultPageName
	}

	return c
}

// Paged partitions the scope according to the collection configuration.
func (s Scope[T]) Paged(c Collection) *PageSet[T] {
	c = c.Normalize()

	return s.Pages(c.PerPage).WithName(c.PageName)
}

// ResolvePage picks the current page for a request:
//   - the page numbered rawNumber when it is not empty;
//   - otherwise the page containing fallback, when fallback is set and has a
//     non-zero key (an unsaved entity belongs to no page);
//   - otherwise the first page.
//
// Use IsPageNotFound to map the returned error to a "not found" response.
func ResolvePage[T any](ctx context.Context, set *PageSet[T], rawNumber string, fallback *T) (*Page[T], error) {
	if rawNumber = strings.TrimSpace(rawNumber); rawNumber != "" {
		number, err := strconv.Atoi(rawNumber)
		if err != nil {
			return nil, fmt.Errorf("invalid page number '%s': %w", rawNumber, ErrOutOfRange)
		}

		return set.Find(ctx, number)
	}

	if fallback != nil && !isZeroKey(set.base.engine.KeyOf(*fallback)) {
		return set.FindByEntity(ctx, *fallback)
	}

	return set.First(ctx)
}

// IsPageNotFound reports whether err means the requested page does not exist.
func IsPageNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrOutOfRange)
}

func isZeroKey(key any) bool {
	return key == nil || reflect.ValueOf(key).IsZero()
}
