package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
)

// CourseRepository est une interface qui définit les méthodes d'accès aux cours
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uint) error
	GetCourseByID(ctx context.Context, id uint) (*models.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error)
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	ListAllCourses(ctx context.Context) ([]models.Course, error)

	CountPublished(ctx context.Context, q models.CourseQuery) (int64, error)
	FindPublished(ctx context.Context, q models.CourseQuery, offset, limit int) ([]models.Course, error)
	PublishedCategories(ctx context.Context) ([]string, error)
	PublishedPriceRange(ctx context.Context) (min, max *int, err error)
}

// editableColumns are written by UpdateCourse. clicks and created_at are
// never touched by an admin update.
var editableColumns = []string{
	"slug", "title", "provider", "category_slug", "level", "format", "price_from",
	"duration", "tags", "short_desc", "affiliate_url", "is_published", "updated_at",
}

// GormCourseRepository est l'implémentation de CourseRepository utilisant GORM.
type GormCourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository crée et retourne une nouvelle instance de GormCourseRepository.
func NewCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// CreateCourse insère un nouveau cours.
func (r *GormCourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return translate(err, "failed to create course")
	}
	return nil
}

// UpdateCourse writes the editable columns of course, matched by ID.
func (r *GormCourseRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	res := r.db.WithContext(ctx).Model(course).Select(editableColumns).Updates(course)
	if res.Error != nil {
		return translate(res.Error, "failed to update course")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DeleteCourse hard-deletes a course. Its click log rows are left in place.
func (r *GormCourseRepository) DeleteCourse(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete course %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// GetCourseByID récupère un cours par son identifiant.
func (r *GormCourseRepository) GetCourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, translate(err, "failed to get course")
	}
	return &course, nil
}

// GetCourseBySlug récupère un cours par son slug, publié ou non.
func (r *GormCourseRepository) GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&course).Error; err != nil {
		return nil, translate(err, "failed to get course")
	}
	return &course, nil
}

// SlugTaken reports whether a course other than exceptID already uses slug.
// Pass 0 as exceptID when creating.
func (r *GormCourseRepository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Course{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %q: %w", slug, err)
	}
	return count > 0, nil
}

// ListAllCourses returns every course, published or not, newest first.
func (r *GormCourseRepository) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve all courses: %w", err)
	}
	return courses, nil
}

// CountPublished counts the published courses matching q's filters.
func (r *GormCourseRepository) CountPublished(ctx context.Context, q models.CourseQuery) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Scopes(publishedFilter(q)).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return total, nil
}

// FindPublished returns one window of the published courses matching q, in q.Sort order.
func (r *GormCourseRepository) FindPublished(ctx context.Context, q models.CourseQuery, offset, limit int) ([]models.Course, error) {
	courses := []models.Course{}
	err := r.db.WithContext(ctx).
		Scopes(publishedFilter(q)).
		Order(orderClause(q.Sort)).
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// PublishedCategories returns the distinct, non-empty category slugs of published courses, sorted.
func (r *GormCourseRepository) PublishedCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("is_published = ?", true).
		Where("category_slug IS NOT NULL AND category_slug <> ''").
		Distinct().
		Order("category_slug").
		Pluck("category_slug", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// PublishedPriceRange returns the lowest and highest price_from among published
// courses; both are nil when nothing is published.
func (r *GormCourseRepository) PublishedPriceRange(ctx context.Context) (*int, *int, error) {
	var row priceRange
	err := r.db.WithContext(ctx).Model(&models.Course{}).
		Select("MIN(price_from) AS min_price, MAX(price_from) AS max_price").
		Where("is_published = ?", true).
		Scan(&row).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute price range: %w", err)
	}
	return row.MinPrice, row.MaxPrice, nil
}

type priceRange struct {
	MinPrice *int
	MaxPrice *int
}

// publishedFilter applies the published predicate and every non-nil filter of q.
func publishedFilter(q models.CourseQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_published = ?", true)
		if q.Search != nil {
			pattern := "%" + escapeLike(strings.ToLower(*q.Search)) + "%"
			db = db.Where(
				`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\' OR LOWER(short_desc) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern,
			)
		}
		if q.Category != nil {
			db = db.Where("category_slug = ?", *q.Category)
		}
		if q.Level != nil {
			db = db.Where("level = ?", string(*q.Level))
		}
		if q.Format != nil {
			db = db.Where("format = ?", string(*q.Format))
		}
		if q.PriceMin != nil {
			db = db.Where("price_from >= ?", *q.PriceMin)
		}
		if q.PriceMax != nil {
			db = db.Where("price_from <= ?", *q.PriceMax)
		}
		return db
	}
}

// orderClause maps a sort order to SQL. id is the last key so equal values
// keep a stable order across pages, and price_desc is the exact reverse of price_asc.
func orderClause(sort models.SortOrder) string {
	switch sort {
	case models.SortNew:
		return "created_at DESC, id DESC"
	case models.SortPriceAsc:
		return "price_from ASC, id ASC"
	case models.SortPriceDesc:
		return "price_from DESC, id DESC"
	default:
		return "clicks DESC, id ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// translate maps gorm errors onto the catalog's sentinel errors.
func translate(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrCourseNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return apperrors.ErrDuplicateSlug
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// isUniqueViolation catches unique constraint errors from drivers that do
// not implement gorm's error translation.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
