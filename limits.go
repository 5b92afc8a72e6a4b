package pagedscope

const (
	// NoLimit marks a scope without a window: every matching row is in it.
	NoLimit = -1
	// MaxPerPage caps page sizes requested by clients.
	MaxPerPage = 100
	// DefaultPerPage is used when no page size was requested.
	DefaultPerPage = 10
)

// IsNormalizedPerPageMax clamps perPage into [1, maxPerPage], substituting
// DefaultPerPage for non-positive sizes. The boolean reports whether perPage
// was accepted unchanged. A non-positive maxPerPage means MaxPerPage.
func IsNormalizedPerPageMax(perPage int, maxPerPage int) (int, bool) {
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}

	switch {
	case perPage <= 0:
		return min(DefaultPerPage, maxPerPage), false
	case perPage > maxPerPage:
		return maxPerPage, false
	default:
		return perPage, true
	}
}

// NormalizePerPageMax is IsNormalizedPerPageMax without the report.
func NormalizePerPageMax(perPage int, maxPerPage int) int {
	ret, _ := IsNormalizedPerPageMax(perPage, maxPerPage)
	return ret
}

// NormalizePerPage clamps a client-supplied page size against MaxPerPage.
// Collection.Normalize applies it to PerPage.
func NormalizePerPage(perPage int) int {
	return NormalizePerPageMax(perPage, MaxPerPage)
}
