package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/axellelanca/coursecatalog/internal/database"
	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func insertCourse(t *testing.T, db *gorm.DB, c models.Course) models.Course {
	if c.Title == "" {
		c.Title = c.Slug
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func slugs(courses []models.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Slug)
	}
	return out
}

func TestFindPublishedFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	insertCourse(t, db, models.Course{Slug: "go-basics", Title: "Go Basics", CategorySlug: "programming", Level: models.LevelBeginner, Format: models.FormatOnline, PriceFrom: 1000, IsPublished: true, Clicks: 5})
	insertCourse(t, db, models.Course{Slug: "ml-pro", Title: "Machine Learning", Tags: "python, neural networks", CategorySlug: "ai", Level: models.LevelPro, Format: models.FormatMixed, PriceFrom: 2000, IsPublished: true, Clicks: 10})
	insertCourse(t, db, models.Course{Slug: "draft", Title: "Neural Draft", CategorySlug: "ai", PriceFrom: 1500, IsPublished: false, Clicks: 100})

	tests := []struct {
		name string
		q    models.CourseQuery
		want []string
	}{
		{"no filters, popular", models.CourseQuery{}, []string{"ml-pro", "go-basics"}},
		{"search matches tags only", models.CourseQuery{Search: strPtr("NEURAL")}, []string{"ml-pro"}},
		{"search in title", models.CourseQuery{Search: strPtr("basics")}, []string{"go-basics"}},
		{"category", models.CourseQuery{Category: strPtr("ai")}, []string{"ml-pro"}},
		{"unknown category", models.CourseQuery{Category: strPtr("cooking")}, []string{}},
		{"price range", models.CourseQuery{PriceMin: intPtr(1500), PriceMax: intPtr(2500)}, []string{"ml-pro"}},
		{"inverted price range", models.CourseQuery{PriceMin: intPtr(2500), PriceMax: intPtr(1500)}, []string{}},
		{"price bounds inclusive", models.CourseQuery{PriceMin: intPtr(1000), PriceMax: intPtr(1000)}, []string{"go-basics"}},
		{"price asc", models.CourseQuery{Sort: models.SortPriceAsc}, []string{"go-basics", "ml-pro"}},
		{"price desc", models.CourseQuery{Sort: models.SortPriceDesc}, []string{"ml-pro", "go-basics"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindPublished(ctx, tt.q, 0, 9)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugs(got))

			total, err := repo.CountPublished(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	insertCourse(t, db, models.Course{Slug: "discount", Title: "100% practical", IsPublished: true})
	insertCourse(t, db, models.Course{Slug: "plain", Title: "100 lessons", IsPublished: true})

	got, err := repo.FindPublished(context.Background(), models.CourseQuery{Search: strPtr("100%")}, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"discount"}, slugs(got))
}

func TestSortNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	now := time.Now()

	insertCourse(t, db, models.Course{Slug: "old", IsPublished: true, CreatedAt: now.Add(-2 * time.Hour)})
	insertCourse(t, db, models.Course{Slug: "new", IsPublished: true, CreatedAt: now})
	insertCourse(t, db, models.Course{Slug: "mid", IsPublished: true, CreatedAt: now.Add(-time.Hour)})

	got, err := repo.FindPublished(context.Background(), models.CourseQuery{Sort: models.SortNew}, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, slugs(got))

	all, err := repo.ListAllCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, slugs(all))
}

func TestFacets(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	min, max, err := repo.PublishedPriceRange(ctx)
	require.NoError(t, err)
	assert.Nil(t, min)
	assert.Nil(t, max)

	insertCourse(t, db, models.Course{Slug: "a", CategorySlug: "design", PriceFrom: 300, IsPublished: true})
	insertCourse(t, db, models.Course{Slug: "b", CategorySlug: "ai", PriceFrom: 9000, IsPublished: true})
	insertCourse(t, db, models.Course{Slug: "c", CategorySlug: "ai", PriceFrom: 500, IsPublished: true})
	insertCourse(t, db, models.Course{Slug: "d", CategorySlug: "", PriceFrom: 700, IsPublished: true})
	insertCourse(t, db, models.Course{Slug: "e", CategorySlug: "hidden", PriceFrom: 1, IsPublished: false})

	categories, err := repo.PublishedCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "design"}, categories)

	min, max, err = repo.PublishedPriceRange(ctx)
	require.NoError(t, err)
	require.NotNil(t, min)
	require.NotNil(t, max)
	assert.Equal(t, 300, *min)
	assert.Equal(t, 9000, *max)
}

func TestCourseCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course := &models.Course{Slug: "go", Title: "Go", IsPublished: true}
	require.NoError(t, repo.CreateCourse(ctx, course))
	require.NotZero(t, course.ID)

	t.Run("duplicate slug", func(t *testing.T) {
		err := repo.CreateCourse(ctx, &models.Course{Slug: "go", Title: "Other"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateSlug)
	})

	t.Run("slug taken", func(t *testing.T) {
		taken, err := repo.SlugTaken(ctx, "go", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.SlugTaken(ctx, "go", course.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("update keeps clicks", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).Update("clicks", 7).Error)

		course.Title = "Go in depth"
		course.IsPublished = false
		course.Clicks = 0
		require.NoError(t, repo.UpdateCourse(ctx, course))

		got, err := repo.GetCourseByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, "Go in depth", got.Title)
		assert.False(t, got.IsPublished)
		assert.Equal(t, 7, got.Clicks)
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := repo.GetCourseBySlug(ctx, "nope")
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

		err = repo.UpdateCourse(ctx, &models.Course{ID: 999, Slug: "x", Title: "x"})
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

		assert.ErrorIs(t, repo.DeleteCourse(ctx, 999), apperrors.ErrCourseNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteCourse(ctx, course.ID))
		_, err := repo.GetCourseByID(ctx, course.ID)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestRecordClick(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseRepository(db)
	clicks := NewClickRepository(db)
	ctx := context.Background()

	course := insertCourse(t, db, models.Course{Slug: "go", IsPublished: true, Clicks: 5})

	event := models.ClickEvent{Slug: "go", UTMSource: "newsletter", Referer: "  "}
	require.NoError(t, clicks.RecordClick(ctx, event.ToClick(course.ID)))
	require.NoError(t, clicks.RecordClick(ctx, models.ClickEvent{Slug: "go"}.ToClick(course.ID)))

	got, err := courses.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Clicks)

	n, err := clicks.CountClicksByCourseID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var logged models.Click
	require.NoError(t, db.Where("course_id = ? AND utm_source IS NOT NULL", course.ID).First(&logged).Error)
	assert.Nil(t, logged.Referer)
	assert.Nil(t, logged.UTMCampaign)
	assert.False(t, logged.Ts.IsZero())

	sources, err := clicks.CountClicksBySource(ctx, course.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.SourceCount{{Source: "newsletter", Count: 1}, {Source: "", Count: 1}}, sources)
}

func TestRecordClickRollsBackForMissingCourse(t *testing.T) {
	db := setupTestDB(t)
	clicks := NewClickRepository(db)

	err := clicks.RecordClick(context.Background(), &models.Click{CourseID: 42})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Click{}).Count(&count).Error)
	assert.Zero(t, count)
}
