package domain

import "time"

// Rating bounds accepted for a personal rating.
const (
	MinRating = 0
	MaxRating = 100
)

// Enrollment links a user to a course and holds that user's personal rating.
// UserRating is nil until the user rates the course.
type Enrollment struct {
	ID         string
	UserID     string
	CourseID   string
	EnrolledAt time.Time
	UserRating *int
}

// EnrolledCourse is an enrollment joined with the current course snapshot.
type EnrolledCourse struct {
	Enrollment
	Course Course
}

// ValidRating reports whether value is inside the accepted rating range.
func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}
