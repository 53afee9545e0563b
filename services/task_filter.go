package services

import (
	"strings"

	"gorm.io/gorm"
)

// FilterAll is the sentinel filter value meaning "no restriction". It is
// distinct from an actual status or priority value.
const FilterAll = "all"

// Recognized sortBy values. Anything else falls back to insertion order.
const (
	SortByDeadline  = "deadline"
	SortByCreatedAt = "createdAt"
)

// TaskFilter is the typed filter/sort specification for listing tasks.
// Zero-valued fields impose no restriction.
type TaskFilter struct {
	Status   string
	Priority string
	Search   string
	SortBy   string
}

// Apply narrows query to the tasks matching the filter and fixes their
// ordering. Active filters combine with AND; within the search filter,
// the title and description matches combine with OR.
func (f TaskFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.Status != "" && f.Status != FilterAll {
		query = query.Where("status = ?", f.Status)
	}

	if f.Priority != "" && f.Priority != FilterAll {
		query = query.Where("priority = ?", f.Priority)
	}

	if f.Search != "" {
		// LOWER/LIKE instead of ILIKE so the same clause works on both
		// supported drivers.
		pattern := "%" + escapeLikePattern(strings.ToLower(f.Search)) + "%"
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	return query.Order(f.OrderClause())
}

// likeEscaper neutralizes LIKE metacharacters so a search term is matched
// as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// OrderClause maps the sortBy value to a deterministic ordering. Undated
// tasks sort after all dated ones, and id breaks ties so repeated calls
// over unchanged data return identical sequences.
//
// "priority" is advertised as a sort option by the web client but has no
// ordering rule; it takes the insertion-order fallback like any other
// unrecognized value.
func (f TaskFilter) OrderClause() string {
	switch f.SortBy {
	case SortByDeadline, "":
		return "deadline ASC NULLS LAST, id ASC"
	case SortByCreatedAt:
		return "created_at DESC, id ASC"
	default:
		return "created_at ASC, id ASC"
	}
}
