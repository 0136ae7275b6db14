package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/repository"
)

// HomePath is where visitors land when a redirect has no destination.
const HomePath = "/"

// Outcome classifies a tracked redirect.
type Outcome string

const (
	OutcomeRedirected Outcome = "redirected" // click logged, sent to the affiliate URL
	OutcomeNoURL      Outcome = "no_url"     // click logged, course has no affiliate URL
	OutcomeNotFound   Outcome = "not_found"  // no such slug, nothing logged
)

// Redirect is the result of TrackClick.
type Redirect struct {
	Location string
	Outcome  Outcome
	CourseID uint
}

// TrackingService resolves affiliate redirects and records clicks.
type TrackingService struct {
	courseRepo repository.CourseRepository
	clickRepo  repository.ClickRepository
	log        *zap.Logger
}

// NewTrackingService creates and returns a new instance of TrackingService.
func NewTrackingService(courseRepo repository.CourseRepository, clickRepo repository.ClickRepository, log *zap.Logger) *TrackingService {
	return &TrackingService{courseRepo: courseRepo, clickRepo: clickRepo, log: log}
}

// TrackClick resolves event.Slug and records the click. The order is fixed:
// find the course, log the click and increment the counter atomically, then
// look at the affiliate URL. A course without a URL therefore still counts
// the click and sends the visitor home. Unknown slugs (published or not is
// irrelevant here) send the visitor home without writing anything.
// Only storage failures are returned as errors.
func (s *TrackingService) TrackClick(ctx context.Context, event models.ClickEvent) (*Redirect, error) {
	course, err := s.courseRepo.GetCourseBySlug(ctx, event.Slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return &Redirect{Location: HomePath, Outcome: OutcomeNotFound}, nil
		}
		return nil, err
	}

	if err := s.clickRepo.RecordClick(ctx, event.ToClick(course.ID)); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			// deleted between lookup and write
			return &Redirect{Location: HomePath, Outcome: OutcomeNotFound}, nil
		}
		return nil, err
	}

	if strings.TrimSpace(course.AffiliateURL) == "" {
		s.log.Warn("course has no affiliate URL", zap.String("slug", course.Slug), zap.Uint("course_id", course.ID))
		return &Redirect{Location: HomePath, Outcome: OutcomeNoURL, CourseID: course.ID}, nil
	}

	return &Redirect{Location: course.AffiliateURL, Outcome: OutcomeRedirected, CourseID: course.ID}, nil
}

// CourseStats is the click summary of one course.
type CourseStats struct {
	Course   *models.Course
	LogCount int64
	BySource []models.SourceCount
}

// GetCourseStats returns the counter, the click log size and the per
// utm_source breakdown for slug.
func (s *TrackingService) GetCourseStats(ctx context.Context, slug string) (*CourseStats, error) {
	course, err := s.courseRepo.GetCourseBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	logCount, err := s.clickRepo.CountClicksByCourseID(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	bySource, err := s.clickRepo.CountClicksBySource(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return &CourseStats{Course: course, LogCount: logCount, BySource: bySource}, nil
}
