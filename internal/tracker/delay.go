package tracker

import (
	"context"
	"time"
)

// Operation names passed to a Delay.
const (
	OpRegister        = "register"
	OpAuthenticate    = "authenticate"
	OpListCourses     = "list_courses"
	OpGetCourse       = "get_course"
	OpEnroll          = "enroll"
	OpListEnrollments = "list_enrollments"
	OpSubmitRating    = "submit_rating"
)

// Delay simulates I/O latency before an operation runs. It must not change
// the outcome of the operation; it may only abort it when ctx is done.
type Delay func(ctx context.Context, op string) error

// NoDelay runs every operation immediately.
func NoDelay(ctx context.Context, _ string) error {
	return ctx.Err()
}

// DefaultLatencies is the per-operation latency used when simulated latency
// is enabled.
var DefaultLatencies = map[string]time.Duration{
	OpRegister:        800 * time.Millisecond,
	OpAuthenticate:    800 * time.Millisecond,
	OpListCourses:     600 * time.Millisecond,
	OpGetCourse:       400 * time.Millisecond,
	OpEnroll:          700 * time.Millisecond,
	OpListEnrollments: 600 * time.Millisecond,
	OpSubmitRating:    500 * time.Millisecond,
}

// Latency returns a Delay that waits table[op] (zero for unknown ops).
func Latency(table map[string]time.Duration) Delay {
	return func(ctx context.Context, op string) error {
		d := table[op]
		if d <= 0 {
			return ctx.Err()
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}
