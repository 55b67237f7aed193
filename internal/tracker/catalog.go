package tracker

import (
	"context"

	"github.com/Clark-Hu/course-tracker/internal/catalog"
	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// Catalog serves read access to the seeded courses.
type Catalog struct {
	service
}

// ListCourses returns every course in seed order.
func (c *Catalog) ListCourses(ctx context.Context) ([]domain.Course, error) {
	if err := c.delay(ctx, OpListCourses); err != nil {
		return nil, err
	}
	return c.repo.Courses.List(), nil
}

// SearchCourses filters and orders the catalog.
func (c *Catalog) SearchCourses(ctx context.Context, filter catalog.Filter) ([]domain.Course, error) {
	courses, err := c.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(courses), nil
}

// GetCourse returns the current snapshot of a course. An unknown id yields
// ok == false, not an error.
func (c *Catalog) GetCourse(ctx context.Context, id string) (domain.Course, bool, error) {
	if err := c.delay(ctx, OpGetCourse); err != nil {
		return domain.Course{}, false, err
	}
	course, ok := c.repo.Courses.Get(id)
	return course, ok, nil
}
