package domain

import "time"

// DefaultCourseRating is the aggregate a course shows before anyone rates it.
const DefaultCourseRating = 70

// Course represents a catalog entry. Rating is the rounded mean of every
// personal rating recorded against the course.
type Course struct {
	ID          string
	Name        string
	Instructor  string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	Rating      int
}
