package index

import (
	"slices"

	"github.com/poiesic/recall/core"
)

// Filter decides whether a document participates in a scan.
// Filters must not retain or mutate the document.
type Filter func(doc *core.Document) bool

// And combines filters; all must accept. Nil filters are skipped.
func And(filters ...Filter) Filter {
	return func(doc *core.Document) bool {
		for _, f := range filters {
			if f != nil && !f(doc) {
				return false
			}
		}
		return true
	}
}

// ByUser accepts documents owned by userID.
func ByUser(userID string) Filter {
	return func(doc *core.Document) bool {
		return doc != nil && doc.UserID == userID
	}
}

// ByCategory accepts documents in the given category.
func ByCategory(category string) Filter {
	return func(doc *core.Document) bool {
		return doc != nil && doc.Category == category
	}
}

// ByTags accepts documents carrying all of the given tags.
func ByTags(tags ...string) Filter {
	return func(doc *core.Document) bool {
		if doc == nil {
			return false
		}
		for _, want := range tags {
			if !slices.Contains(doc.Tags, want) {
				return false
			}
		}
		return true
	}
}

// ByMinPriority accepts documents with priority at or above min.
func ByMinPriority(min int) Filter {
	return func(doc *core.Document) bool {
		return doc != nil && doc.Priority >= min
	}
}

// FromOptions builds the scan filter implied by caller search options.
// Returns nil when the options carry no field filters.
func FromOptions(opts core.SearchOptions) Filter {
	var filters []Filter
	if opts.UserID != "" {
		filters = append(filters, ByUser(opts.UserID))
	}
	if opts.Category != "" {
		filters = append(filters, ByCategory(opts.Category))
	}
	if len(opts.Tags) > 0 {
		filters = append(filters, ByTags(opts.Tags...))
	}
	if len(filters) == 0 {
		return nil
	}
	return And(filters...)
}
