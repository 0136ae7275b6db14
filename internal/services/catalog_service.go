// Package services contains the business logic layer of the course catalog
package services

import (
	"context"
	"errors"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/repository"
)

// DefaultPageSize is used when a query does not set PerPage.
const DefaultPageSize = 9

// CatalogService is the read side of the catalog: filtered, searched, sorted
// and paginated views over published courses. It never returns an
// unpublished course.
type CatalogService struct {
	courseRepo repository.CourseRepository
}

// NewCatalogService creates and returns a new instance of CatalogService.
func NewCatalogService(courseRepo repository.CourseRepository) *CatalogService {
	return &CatalogService{courseRepo: courseRepo}
}

// ListCourses runs q and returns the requested page. The page number is
// clamped to [1, TotalPages]; an empty result is one empty page, not an error.
func (s *CatalogService) ListCourses(ctx context.Context, q models.CourseQuery) (*models.CoursePage, error) {
	if q.PerPage < 1 {
		q.PerPage = DefaultPageSize
	}

	total, err := s.courseRepo.CountPublished(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := models.TotalPages(total, q.PerPage)
	page := models.ClampPage(q.Page, totalPages)

	courses := []models.Course{}
	if total > 0 {
		courses, err = s.courseRepo.FindPublished(ctx, q, (page-1)*q.PerPage, q.PerPage)
		if err != nil {
			return nil, err
		}
	}

	return &models.CoursePage{
		Courses:    courses,
		Page:       page,
		PerPage:    q.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// TopCourses returns the limit most clicked published courses.
func (s *CatalogService) TopCourses(ctx context.Context, limit int) ([]models.Course, error) {
	return s.courseRepo.FindPublished(ctx, models.CourseQuery{Sort: models.SortPopular}, 0, limit)
}

// Facets returns the category list and price range of published courses,
// falling back to DefaultFacetPriceMin/Max when nothing is published.
func (s *CatalogService) Facets(ctx context.Context) (*models.CatalogFacets, error) {
	categories, err := s.courseRepo.PublishedCategories(ctx)
	if err != nil {
		return nil, err
	}
	min, max, err := s.courseRepo.PublishedPriceRange(ctx)
	if err != nil {
		return nil, err
	}

	facets := &models.CatalogFacets{
		Categories: categories,
		PriceMin:   models.DefaultFacetPriceMin,
		PriceMax:   models.DefaultFacetPriceMax,
	}
	if min != nil {
		facets.PriceMin = *min
	}
	if max != nil {
		facets.PriceMax = *max
	}
	return facets, nil
}

// GetPublishedCourse returns the course with slug, or ErrCourseNotFound when
// it does not exist or is not published.
func (s *CatalogService) GetPublishedCourse(ctx context.Context, slug string) (*models.Course, error) {
	course, err := s.courseRepo.GetCourseBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// IsNotFound reports whether err means the course does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrCourseNotFound)
}
