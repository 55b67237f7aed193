package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// SortOrder names a catalog ordering.
type SortOrder string

const (
	SortSeed       SortOrder = ""
	SortName       SortOrder = "name"
	SortRatingHigh SortOrder = "rating-high"
	SortRatingLow  SortOrder = "rating-low"
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
)

// Filter encapsulates search and ordering options for course lists.
type Filter struct {
	Query string
	Sort  SortOrder
}

// ParseSortOrder validates a sort key.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch order := SortOrder(strings.TrimSpace(raw)); order {
	case SortSeed, SortName, SortRatingHigh, SortRatingLow, SortNewest, SortOldest:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort value %q", raw)
	}
}

// Matches reports whether the course name or instructor contains the query,
// ignoring case. An empty query matches everything.
func (f Filter) Matches(course domain.Course) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(course.Name), q) ||
		strings.Contains(strings.ToLower(course.Instructor), q)
}

// Apply returns the matching courses in the requested order. Ties keep
// their input order.
func (f Filter) Apply(courses []domain.Course) []domain.Course {
	out := make([]domain.Course, 0, len(courses))
	for _, course := range courses {
		if f.Matches(course) {
			out = append(out, course)
		}
	}

	less := f.less()
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func (f Filter) less() func(a, b domain.Course) bool {
	switch f.Sort {
	case SortName:
		return func(a, b domain.Course) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortRatingHigh:
		return func(a, b domain.Course) bool { return a.Rating > b.Rating }
	case SortRatingLow:
		return func(a, b domain.Course) bool { return a.Rating < b.Rating }
	case SortNewest:
		return func(a, b domain.Course) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		return func(a, b domain.Course) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return nil
	}
}
