package repository

import (
	"errors"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates all domain-specific repositories. Each one owns its
// records exclusively; nothing outside the package holds references to them.
type Repository struct {
	Users       *UsersRepository
	Courses     *CoursesRepository
	Enrollments *EnrollmentsRepository
}

// Options tunes repository construction.
type Options struct {
	// BcryptCost is the hashing cost for stored secrets. Zero selects
	// bcrypt.DefaultCost.
	BcryptCost int
}

// New constructs a Repository whose catalog is seeded with courses.
func New(courses []domain.Course, opts Options) *Repository {
	return &Repository{
		Users:       NewUsersRepository(opts.BcryptCost),
		Courses:     NewCoursesRepository(courses),
		Enrollments: NewEnrollmentsRepository(),
	}
}
