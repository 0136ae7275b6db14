package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the course catalog

// ErrCourseNotFound is returned when no course matches a slug or id
var ErrCourseNotFound = errors.New("course not found")

// ErrDuplicateSlug is returned when a create or update would reuse another course's slug
var ErrDuplicateSlug = errors.New("slug already in use")

// ErrInvalidToken is returned when the admin token is missing or wrong
var ErrInvalidToken = errors.New("invalid admin token")

// ErrInvalidLevel is returned when a level is not beginner, middle or pro
var ErrInvalidLevel = errors.New("invalid level")

// ErrInvalidFormat is returned when a format is not online, offline or mixed
var ErrInvalidFormat = errors.New("invalid format")

// ErrClickRecordingFailed is returned when the click log write or the counter
// increment fails; neither is persisted in that case.
type ErrClickRecordingFailed struct {
	CourseID uint
	Reason   string
}

func (e ErrClickRecordingFailed) Error() string {
	return fmt.Sprintf("failed to record click for course %d: %s", e.CourseID, e.Reason)
}

// ErrURLCheckFailed is returned when an affiliate URL health check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}

// ErrInvalidCourse is returned when admin input fails validation
var ErrInvalidCourse = errors.New("invalid course")
