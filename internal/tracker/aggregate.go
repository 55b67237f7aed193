package tracker

import (
	"errors"
	"math"

	"github.com/Clark-Hu/course-tracker/internal/domain"
	"github.com/Clark-Hu/course-tracker/internal/repository"
)

// Aggregator derives a course's rating from the personal ratings in the
// ledger. It is the only writer of Course.Rating.
type Aggregator struct {
	service
}

// Recompute refreshes the aggregate rating of a course.
func (a *Aggregator) Recompute(courseID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.recompute(courseID)
	return err
}

// recompute stores and returns the new aggregate. The caller holds the lock.
func (a *Aggregator) recompute(courseID string) (int, error) {
	rating := Average(a.repo.Enrollments.RatingsForCourse(courseID))
	if err := a.repo.Courses.SetRating(courseID, rating); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, domain.ErrUnknownCourse
		}
		return 0, err
	}
	return rating, nil
}

// Average rounds the mean of ratings half away from zero. An empty set
// yields domain.DefaultCourseRating.
func Average(ratings []int) int {
	if len(ratings) == 0 {
		return domain.DefaultCourseRating
	}
	total := 0
	for _, r := range ratings {
		total += r
	}
	return int(math.Round(float64(total) / float64(len(ratings))))
}
