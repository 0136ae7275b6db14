package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
)

// ClickRepository est une interface qui définit les méthodes d'accès au journal des clics
type ClickRepository interface {
	RecordClick(ctx context.Context, click *models.Click) error
	CountClicksByCourseID(ctx context.Context, courseID uint) (int64, error)
	CountClicksBySource(ctx context.Context, courseID uint) ([]models.SourceCount, error)
}

// GormClickRepository est l'implémentation de l'interface ClickRepository utilisant GORM.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository crée et retourne une nouvelle instance de GormClickRepository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// RecordClick appends click to the log and increments the course's counter
// in one transaction. The increment is a single UPDATE clicks = clicks + 1,
// so concurrent redirects never lose an update. If the course no longer
// exists the insert is rolled back and ErrCourseNotFound is returned.
func (r *GormClickRepository) RecordClick(ctx context.Context, click *models.Click) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(click).Error; err != nil {
			return apperrors.ErrClickRecordingFailed{CourseID: click.CourseID, Reason: err.Error()}
		}

		res := tx.Model(&models.Course{}).
			Where("id = ?", click.CourseID).
			Update("clicks", gorm.Expr("clicks + ?", 1))
		if res.Error != nil {
			return apperrors.ErrClickRecordingFailed{CourseID: click.CourseID, Reason: res.Error.Error()}
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, apperrors.ErrCourseNotFound) {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return err
}

// CountClicksByCourseID compte le nombre de lignes du journal pour un cours donné.
func (r *GormClickRepository) CountClicksByCourseID(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Click{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clicks for course ID %d: %w", courseID, err)
	}
	return count, nil
}

// CountClicksBySource groups a course's click log by utm_source, most clicks
// first. Clicks without a source are reported under an empty Source.
func (r *GormClickRepository) CountClicksBySource(ctx context.Context, courseID uint) ([]models.SourceCount, error) {
	var rows []models.SourceCount
	err := r.db.WithContext(ctx).Model(&models.Click{}).
		Select("COALESCE(utm_source, '') AS source, COUNT(*) AS total").
		Where("course_id = ?", courseID).
		Group("COALESCE(utm_source, '')").
		Order("total DESC, source ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group clicks for course ID %d: %w", courseID, err)
	}
	return rows, nil
}
