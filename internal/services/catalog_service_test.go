package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
)

func TestListCoursesPopularExample(t *testing.T) {
	f := setup(t)
	f.insert(t, models.Course{Slug: "a", PriceFrom: 1000, Clicks: 5, IsPublished: true})
	f.insert(t, models.Course{Slug: "b", PriceFrom: 2000, Clicks: 10, IsPublished: true})

	page, err := f.catalog.ListCourses(context.Background(), models.CourseQuery{
		Category: models.FilterValue("all"),
		Sort:     models.ParseSort("popular"),
		Page:     1,
		PerPage:  9,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugsOf(page.Courses))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListCoursesPriceRangeExample(t *testing.T) {
	f := setup(t)
	f.insert(t, models.Course{Slug: "a", PriceFrom: 1000, IsPublished: true})
	f.insert(t, models.Course{Slug: "b", PriceFrom: 2000, IsPublished: true})

	page, err := f.catalog.ListCourses(context.Background(), models.CourseQuery{PriceMin: intPtr(1500), PriceMax: intPtr(2500)})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, slugsOf(page.Courses))
}

func TestListCoursesPagination(t *testing.T) {
	f := setup(t)
	for i := 0; i < 20; i++ {
		f.insert(t, models.Course{Slug: fmt.Sprintf("course-%02d", i), Clicks: 100 - i, IsPublished: true})
	}
	ctx := context.Background()

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantCount int
		wantFirst string
	}{
		{"first page", 1, 1, 9, "course-00"},
		{"second page", 2, 2, 9, "course-09"},
		{"last page is partial", 3, 3, 2, "course-18"},
		{"beyond last clamps to last", 42, 3, 2, "course-18"},
		{"zero clamps to first", 0, 1, 9, "course-00"},
		{"negative clamps to first", -5, 1, 9, "course-00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.catalog.ListCourses(ctx, models.CourseQuery{Page: tt.page, PerPage: 9})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, 3, page.TotalPages)
			assert.Equal(t, int64(20), page.Total)
			require.Len(t, page.Courses, tt.wantCount)
			assert.Equal(t, tt.wantFirst, page.Courses[0].Slug)
		})
	}
}

func TestListCoursesEmptyResult(t *testing.T) {
	f := setup(t)
	f.insert(t, models.Course{Slug: "a", CategorySlug: "ai", IsPublished: true})

	page, err := f.catalog.ListCourses(context.Background(), models.CourseQuery{Category: strPtr("cooking"), Page: 7})
	require.NoError(t, err)
	assert.NotNil(t, page.Courses)
	assert.Empty(t, page.Courses)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PerPage)
}

func TestListCoursesNeverReturnsUnpublished(t *testing.T) {
	f := setup(t)
	f.insert(t, models.Course{Slug: "visible", Title: "Python", Tags: "ai", CategorySlug: "ai", IsPublished: true})
	f.insert(t, models.Course{Slug: "hidden", Title: "Python secret", Tags: "ai", CategorySlug: "ai", Clicks: 999, IsPublished: false})
	ctx := context.Background()

	queries := []models.CourseQuery{
		{},
		{Search: strPtr("python")},
		{Category: strPtr("ai")},
		{Sort: models.SortNew},
		{Sort: models.SortPriceDesc},
	}
	for _, q := range queries {
		page, err := f.catalog.ListCourses(ctx, q)
		require.NoError(t, err)
		assert.NotContains(t, slugsOf(page.Courses), "hidden")
	}

	top, err := f.catalog.TopCourses(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, slugsOf(top))

	_, err = f.catalog.GetPublishedCourse(ctx, "hidden")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestPriceSortsAreReversed(t *testing.T) {
	f := setup(t)
	for i, price := range []int{500, 3000, 1200, 99, 7000} {
		f.insert(t, models.Course{Slug: fmt.Sprintf("c%d", i), PriceFrom: price, IsPublished: true})
	}
	ctx := context.Background()

	asc, err := f.catalog.ListCourses(ctx, models.CourseQuery{Sort: models.SortPriceAsc})
	require.NoError(t, err)
	desc, err := f.catalog.ListCourses(ctx, models.CourseQuery{Sort: models.SortPriceDesc})
	require.NoError(t, err)

	ascSlugs := slugsOf(asc.Courses)
	descSlugs := slugsOf(desc.Courses)
	require.Len(t, descSlugs, len(ascSlugs))
	for i := range ascSlugs {
		assert.Equal(t, ascSlugs[i], descSlugs[len(descSlugs)-1-i])
	}
	assert.Equal(t, "c3", ascSlugs[0])
}

func TestFacets(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	facets, err := f.catalog.Facets(ctx)
	require.NoError(t, err)
	assert.Empty(t, facets.Categories)
	assert.Equal(t, 0, facets.PriceMin)
	assert.Equal(t, 100000, facets.PriceMax)

	f.insert(t, models.Course{Slug: "a", CategorySlug: "ai", PriceFrom: 4000, IsPublished: true})
	f.insert(t, models.Course{Slug: "b", CategorySlug: "design", PriceFrom: 2500, IsPublished: true})
	f.insert(t, models.Course{Slug: "c", CategorySlug: "secret", PriceFrom: 1, IsPublished: false})

	facets, err = f.catalog.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "design"}, facets.Categories)
	assert.Equal(t, 2500, facets.PriceMin)
	assert.Equal(t, 4000, facets.PriceMax)
}
