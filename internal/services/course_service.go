package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/repository"
)

// slugPattern is lowercase ASCII words separated by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CourseService provides the admin CRUD operations. It depends only on the
// storage layer, never on the catalog read side.
type CourseService struct {
	courseRepo repository.CourseRepository
	validate   *validator.Validate
	log        *zap.Logger
}

// NewCourseService creates and returns a new instance of CourseService.
func NewCourseService(courseRepo repository.CourseRepository, log *zap.Logger) *CourseService {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "level", func(fl validator.FieldLevel) bool {
		return models.Level(fl.Field().String()).Valid()
	})
	mustRegister(v, "format", func(fl validator.FieldLevel) bool {
		return models.Format(fl.Field().String()).Valid()
	})
	return &CourseService{courseRepo: courseRepo, validate: v, log: log}
}

// mustRegister panics when a custom rule cannot be registered; a missing
// rule would make every tag using it fail.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// ListCourses returns every course, published or not, newest first.
func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.ListAllCourses(ctx)
}

// GetCourse returns the course with id regardless of its published flag.
func (s *CourseService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return s.courseRepo.GetCourseByID(ctx, id)
}

// CreateCourse validates in and stores a new course. A nil IsPublished
// creates a published course. A slug already in use yields ErrDuplicateSlug
// and nothing is written.
func (s *CourseService) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	in = normalize(in)
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	taken, err := s.courseRepo.SlugTaken(ctx, in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateSlug
	}

	course := &models.Course{IsPublished: true}
	in.Apply(course)
	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info("course created", zap.Uint("course_id", course.ID), zap.String("slug", course.Slug))
	return course, nil
}

// UpdateCourse validates in and overwrites the editable fields of course id.
// The click counter and creation time are never changed here.
func (s *CourseService) UpdateCourse(ctx context.Context, id uint, in models.CourseInput) (*models.Course, error) {
	in = normalize(in)
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.courseRepo.SlugTaken(ctx, in.Slug, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateSlug
	}

	in.Apply(course)
	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info("course updated", zap.Uint("course_id", course.ID), zap.String("slug", course.Slug))
	return course, nil
}

// DeleteCourse hard-deletes course id. Its click log rows are kept.
func (s *CourseService) DeleteCourse(ctx context.Context, id uint) error {
	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.log.Info("course deleted", zap.Uint("course_id", id))
	return nil
}

func (s *CourseService) validateInput(in models.CourseInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidCourse, err)
	}

	fe := fieldErrs[0]
	switch fe.Field() {
	case "Level":
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidCourse, apperrors.ErrInvalidLevel)
	case "Format":
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidCourse, apperrors.ErrInvalidFormat)
	}
	return fmt.Errorf("%w: %s failed on %q", apperrors.ErrInvalidCourse, strings.ToLower(fe.Field()), fe.Tag())
}

func normalize(in models.CourseInput) models.CourseInput {
	in.Slug = strings.TrimSpace(in.Slug)
	in.Title = strings.TrimSpace(in.Title)
	in.CategorySlug = strings.TrimSpace(in.CategorySlug)
	in.Level = strings.TrimSpace(in.Level)
	in.Format = strings.TrimSpace(in.Format)
	in.AffiliateURL = strings.TrimSpace(in.AffiliateURL)
	return in
}
