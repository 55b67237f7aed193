package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// EnrollmentsRepository is the ledger of (user, course) pairs.
type EnrollmentsRepository struct {
	mu      sync.RWMutex
	records []*domain.Enrollment
	byPair  map[pairKey]*domain.Enrollment
}

type pairKey struct {
	userID   string
	courseID string
}

// NewEnrollmentsRepository returns an empty ledger.
func NewEnrollmentsRepository() *EnrollmentsRepository {
	return &EnrollmentsRepository{byPair: make(map[pairKey]*domain.Enrollment)}
}

// Create records a new enrollment with no personal rating. It returns
// domain.ErrAlreadyEnrolled when the pair already exists.
func (r *EnrollmentsRepository) Create(userID, courseID string, enrolledAt time.Time) (domain.Enrollment, error) {
	key := pairKey{userID: userID, courseID: courseID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPair[key]; exists {
		return domain.Enrollment{}, domain.ErrAlreadyEnrolled
	}

	rec := &domain.Enrollment{
		ID:         "enrollment-" + uuid.NewString(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: enrolledAt,
	}
	r.records = append(r.records, rec)
	r.byPair[key] = rec
	return cloneEnrollment(rec), nil
}

// ListByUser returns the user's enrollments in the order they were created.
func (r *EnrollmentsRepository) ListByUser(userID string) []domain.Enrollment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Enrollment, 0)
	for _, rec := range r.records {
		if rec.UserID == userID {
			items = append(items, cloneEnrollment(rec))
		}
	}
	return items
}

// SetRating stores a personal rating on an existing enrollment.
func (r *EnrollmentsRepository) SetRating(userID, courseID string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byPair[pairKey{userID: userID, courseID: courseID}]
	if !ok {
		return ErrNotFound
	}
	value := rating
	rec.UserRating = &value
	return nil
}

// RatingsForCourse returns every present personal rating recorded against
// the course.
func (r *EnrollmentsRepository) RatingsForCourse(courseID string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]int, 0)
	for _, rec := range r.records {
		if rec.CourseID == courseID && rec.UserRating != nil {
			ratings = append(ratings, *rec.UserRating)
		}
	}
	return ratings
}

func cloneEnrollment(rec *domain.Enrollment) domain.Enrollment {
	out := *rec
	if rec.UserRating != nil {
		value := *rec.UserRating
		out.UserRating = &value
	}
	return out
}
