package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/coursecatalog/internal/database"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/repository"
)

type fixture struct {
	db       *gorm.DB
	catalog  *CatalogService
	tracking *TrackingService
	courses  *CourseService
}

func setup(t *testing.T) *fixture {
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	courseRepo := repository.NewCourseRepository(db)
	clickRepo := repository.NewClickRepository(db)
	log := zap.NewNop()

	return &fixture{
		db:       db,
		catalog:  NewCatalogService(courseRepo),
		tracking: NewTrackingService(courseRepo, clickRepo, log),
		courses:  NewCourseService(courseRepo, log),
	}
}

func (f *fixture) insert(t *testing.T, c models.Course) models.Course {
	if c.Title == "" {
		c.Title = c.Slug
	}
	require.NoError(t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) reload(t *testing.T, id uint) models.Course {
	var c models.Course
	require.NoError(t, f.db.First(&c, id).Error)
	return c
}

func (f *fixture) clickRows(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&models.Click{}).Count(&n).Error)
	return n
}

func slugsOf(courses []models.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Slug)
	}
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
