package repository

import (
	"sync"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// CoursesRepository holds the seeded catalog. Seed order is preserved and
// the only mutable field is the aggregate rating.
type CoursesRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.Course
}

// NewCoursesRepository copies seed into a new catalog. Duplicate ids keep
// the first occurrence. No ratings exist yet, so every course starts at the
// default aggregate whatever the seed carries.
func NewCoursesRepository(seed []domain.Course) *CoursesRepository {
	r := &CoursesRepository{
		order: make([]string, 0, len(seed)),
		byID:  make(map[string]*domain.Course, len(seed)),
	}
	for _, course := range seed {
		if _, exists := r.byID[course.ID]; exists {
			continue
		}
		c := course
		c.Rating = domain.DefaultCourseRating
		r.order = append(r.order, c.ID)
		r.byID[c.ID] = &c
	}
	return r
}

// List returns a copy of every course in seed order.
func (r *CoursesRepository) List() []domain.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Course, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, *r.byID[id])
	}
	return items
}

// Get fetches a course snapshot by id.
func (r *CoursesRepository) Get(id string) (domain.Course, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.byID[id]
	if !ok {
		return domain.Course{}, false
	}
	return *course, true
}

// SetRating overwrites the aggregate rating of a course.
func (r *CoursesRepository) SetRating(id string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	course, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	course.Rating = rating
	return nil
}
