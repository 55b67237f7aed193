package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Clark-Hu/course-tracker/internal/catalog"
	"github.com/Clark-Hu/course-tracker/internal/domain"
	"github.com/Clark-Hu/course-tracker/internal/repository"
)

// Ledger records enrollments and personal ratings.
type Ledger struct {
	service
	aggregator *Aggregator
	clock      func() time.Time
}

// Enroll records that userID takes courseID.
func (l *Ledger) Enroll(ctx context.Context, userID, courseID string) (domain.Enrollment, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Enrollment{}, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	if err := l.delay(ctx, OpEnroll); err != nil {
		return domain.Enrollment{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.repo.Courses.Get(courseID); !ok {
		l.failure(ctx, "Course not found")
		return domain.Enrollment{}, domain.ErrUnknownCourse
	}

	enrollment, err := l.repo.Enrollments.Create(userID, courseID, l.clock().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			l.failure(ctx, "You're already enrolled in this course")
		}
		return domain.Enrollment{}, err
	}

	l.success(ctx, "Successfully enrolled in course!")
	return enrollment, nil
}

// ListEnrollmentsForUser joins the user's enrollments with the current
// catalog snapshot, in enrollment order.
func (l *Ledger) ListEnrollmentsForUser(ctx context.Context, userID string) ([]domain.EnrolledCourse, error) {
	return l.SearchEnrollments(ctx, userID, catalog.Filter{})
}

// SearchEnrollments is ListEnrollmentsForUser restricted to courses whose
// name or instructor match filter.Query. Ordering options are ignored.
func (l *Ledger) SearchEnrollments(ctx context.Context, userID string, filter catalog.Filter) ([]domain.EnrolledCourse, error) {
	if err := l.delay(ctx, OpListEnrollments); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	enrollments := l.repo.Enrollments.ListByUser(userID)
	items := make([]domain.EnrolledCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course, ok := l.repo.Courses.Get(enrollment.CourseID)
		if !ok || !filter.Matches(course) {
			continue
		}
		items = append(items, domain.EnrolledCourse{Enrollment: enrollment, Course: course})
	}
	return items, nil
}

// SubmitRating stores the user's personal rating for an enrolled course,
// recomputes the course aggregate and returns it.
func (l *Ledger) SubmitRating(ctx context.Context, userID, courseID string, rating int) (int, error) {
	if !domain.ValidRating(rating) {
		return 0, domain.ErrInvalidRating
	}
	if err := l.delay(ctx, OpSubmitRating); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.Enrollments.SetRating(userID, courseID, rating); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			l.failure(ctx, "You must be enrolled in this course to rate it")
			return 0, domain.ErrNotEnrolled
		}
		return 0, err
	}
	aggregate, err := l.aggregator.recompute(courseID)
	if err != nil {
		return 0, fmt.Errorf("recompute course rating: %w", err)
	}

	l.success(ctx, "Course rated successfully!")
	return aggregate, nil
}
