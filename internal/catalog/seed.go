package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

const dateLayout = "2006-01-02"

// DefaultCourses returns the built-in catalog. Every course starts at the
// default rating.
func DefaultCourses() []domain.Course {
	return []domain.Course{
		{
			ID:          "1",
			Name:        "Introduction to Web Development",
			Instructor:  "Dr. Sarah Johnson",
			Description: "Learn the basics of HTML, CSS, and JavaScript to build modern web applications.",
			ImageURL:    "photo-1488590528505-98d2b5aba04b",
			CreatedAt:   mustDate("2023-09-15"),
			Rating:      domain.DefaultCourseRating,
		},
		{
			ID:          "2",
			Name:        "Advanced Data Structures",
			Instructor:  "Prof. Michael Chen",
			Description: "Explore complex data structures and algorithms for efficient problem-solving.",
			ImageURL:    "photo-1649972904349-6e44c42644a7",
			CreatedAt:   mustDate("2023-10-20"),
			Rating:      domain.DefaultCourseRating,
		},
		{
			ID:          "3",
			Name:        "Mobile App Development",
			Instructor:  "Jane Smith",
			Description: "Create cross-platform mobile applications using React Native.",
			ImageURL:    "photo-1581091226825-a6a2a5aee158",
			CreatedAt:   mustDate("2023-11-05"),
			Rating:      domain.DefaultCourseRating,
		},
		{
			ID:          "4",
			Name:        "Machine Learning Fundamentals",
			Instructor:  "Dr. Alex Rodriguez",
			Description: "Introduction to machine learning concepts, algorithms, and applications.",
			ImageURL:    "photo-1649972904349-6e44c42644a7",
			CreatedAt:   mustDate("2024-01-10"),
			Rating:      domain.DefaultCourseRating,
		},
		{
			ID:          "5",
			Name:        "Database Systems",
			Instructor:  "Prof. Lisa Wong",
			Description: "Learn SQL and database design principles for building robust applications.",
			ImageURL:    "photo-1488590528505-98d2b5aba04b",
			CreatedAt:   mustDate("2024-02-25"),
			Rating:      domain.DefaultCourseRating,
		},
	}
}

type seedEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Instructor  string `json:"instructor"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	CreatedAt   string `json:"created_at"`
}

// LoadFile reads a JSON array of courses from path.
func LoadFile(path string) ([]domain.Course, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	courses, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("catalog seed %s: %w", path, err)
	}
	return courses, nil
}

// Parse decodes a JSON seed payload. Ids must be present and unique.
// Unknown fields, including "rating", are rejected: the aggregate is derived
// from personal ratings and always starts at the default.
func Parse(payload []byte) ([]domain.Course, error) {
	var entries []seedEntry
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	courses := make([]domain.Course, 0, len(entries))
	for i, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("entry %d: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		course := domain.Course{
			ID:          id,
			Name:        strings.TrimSpace(entry.Name),
			Instructor:  strings.TrimSpace(entry.Instructor),
			Description: entry.Description,
			ImageURL:    entry.ImageURL,
			Rating:      domain.DefaultCourseRating,
		}
		if entry.CreatedAt != "" {
			created, err := time.Parse(dateLayout, entry.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("entry %d: created_at must follow YYYY-MM-DD format", i)
			}
			course.CreatedAt = created
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func mustDate(value string) time.Time {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}
