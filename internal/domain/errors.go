package domain

import "errors"

// Outcomes returned by the tracker operations. All of them are recoverable;
// callers match them with errors.Is.
var (
	ErrDuplicateHandle    = errors.New("tracker: a user with this email already exists")
	ErrInvalidCredentials = errors.New("tracker: invalid email or password")
	ErrUnknownCourse      = errors.New("tracker: unknown course")
	ErrAlreadyEnrolled    = errors.New("tracker: already enrolled in this course")
	ErrNotEnrolled        = errors.New("tracker: must be enrolled in this course to rate it")
	ErrInvalidRating      = errors.New("tracker: rating must be between 0 and 100")
	ErrInvalidInput       = errors.New("tracker: invalid input")
)
