package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/axellelanca/coursecatalog/internal/metrics"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/services"
)

// FilterForm echoes the raw filter values back into the catalog form.
type FilterForm struct {
	Query    string
	Category string
	Level    string
	Format   string
	PriceMin string
	PriceMax string
	Sort     string
}

// parseCourseQuery reads the catalog filters from the query string. Blank
// values and "all" disable a filter; unknown sorts fall back to popular.
func parseCourseQuery(c *gin.Context) (models.CourseQuery, FilterForm) {
	form := FilterForm{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Format:   c.Query("format"),
		PriceMin: c.Query("price_min"),
		PriceMax: c.Query("price_max"),
		Sort:     string(models.ParseSort(c.Query("sort"))),
	}
	if slug := c.Param("category_slug"); slug != "" {
		form.Category = slug
	}

	q := models.CourseQuery{
		Search:   models.SearchValue(form.Query),
		Category: models.FilterValue(form.Category),
		Level:    models.LevelFilter(form.Level),
		Format:   models.FormatFilter(form.Format),
		PriceMin: models.IntFilterValue(form.PriceMin),
		PriceMax: models.IntFilterValue(form.PriceMax),
		Sort:     models.SortOrder(form.Sort),
		Page:     queryInt(c, "page", 1),
	}
	return q, form
}

// queryInt reads an integer query value. Values out of the int range
// saturate so that later clamping still applies; anything else unparseable
// yields fallback.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	n, err := strconv.Atoi(raw)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	return fallback
}

// pageURL is the current URL with page replaced.
func pageURL(c *gin.Context, page int) string {
	values := c.Request.URL.Query()
	values.Set("page", strconv.Itoa(page))
	return c.Request.URL.Path + "?" + values.Encode()
}

func internalError(c *gin.Context, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.String(http.StatusInternalServerError, "Internal server error")
}

// HomeHandler renders the most popular published courses.
func HomeHandler(catalog *services.CatalogService, limit int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		courses, err := catalog.TopCourses(c.Request.Context(), limit)
		if err != nil {
			internalError(c, log, "failed to load top courses", err)
			return
		}
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Title":   "Online courses",
			"Courses": courses,
		})
	}
}

// CatalogPageHandler renders a filtered, sorted and paginated catalog page.
// On /category/:category_slug the category comes from the path.
func CatalogPageHandler(catalog *services.CatalogService, pageSize int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		q, form := parseCourseQuery(c)
		q.PerPage = pageSize

		page, err := catalog.ListCourses(ctx, q)
		if err != nil {
			internalError(c, log, "failed to list courses", err)
			return
		}
		facets, err := catalog.Facets(ctx)
		if err != nil {
			internalError(c, log, "failed to load catalog facets", err)
			return
		}

		data := gin.H{
			"Title":  "Course catalog",
			"Page":   page,
			"Facets": facets,
			"Form":   form,
			"Levels": []models.Level{models.LevelBeginner, models.LevelMiddle, models.LevelPro},
			"Formats": []models.Format{
				models.FormatOnline, models.FormatOffline, models.FormatMixed,
			},
			"Sorts": []models.SortOrder{
				models.SortPopular, models.SortNew, models.SortPriceAsc, models.SortPriceDesc,
			},
		}
		if page.Page > 1 {
			data["PrevURL"] = pageURL(c, page.Page-1)
		}
		if page.Page < page.TotalPages {
			data["NextURL"] = pageURL(c, page.Page+1)
		}
		c.HTML(http.StatusOK, "courses.html", data)
	}
}

// CourseDetailHandler renders one published course or the not found page.
func CourseDetailHandler(catalog *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		course, err := catalog.GetPublishedCourse(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if services.IsNotFound(err) {
				c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
				return
			}
			internalError(c, log, "failed to load course", err)
			return
		}
		c.HTML(http.StatusOK, "course.html", gin.H{
			"Title":  course.Title,
			"Course": course,
		})
	}
}

// RedirectHandler records the click and sends the visitor to the course's
// affiliate URL. Unknown slugs and courses without a URL send the visitor
// to the home page instead of an error; only storage failures answer 500.
func RedirectHandler(tracking *services.TrackingService, m *metrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		event := models.ClickEvent{
			Slug:        c.Param("slug"),
			Referer:     c.GetHeader("Referer"),
			UTMSource:   c.Query("utm_source"),
			UTMCampaign: c.Query("utm_campaign"),
		}

		redirect, err := tracking.TrackClick(c.Request.Context(), event)
		if err != nil {
			m.Redirect(metrics.OutcomeError)
			internalError(c, log, "failed to track click", err)
			return
		}

		m.Redirect(string(redirect.Outcome))
		if redirect.Outcome == services.OutcomeRedirected {
			// Location is the affiliate URL verbatim, unlike c.Redirect
			c.Header("Location", redirect.Location)
			c.Status(http.StatusFound)
			return
		}
		c.Redirect(http.StatusFound, redirect.Location)
	}
}

// APICoursesHandler is the JSON version of the catalog. per_page defaults to
// defaultSize and is clamped to [1, maxSize].
func APICoursesHandler(catalog *services.CatalogService, defaultSize, maxSize int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, _ := parseCourseQuery(c)
		q.PerPage = queryInt(c, "per_page", defaultSize)
		if q.PerPage < 1 {
			q.PerPage = 1
		}
		if q.PerPage > maxSize {
			q.PerPage = maxSize
		}

		page, err := catalog.ListCourses(c.Request.Context(), q)
		if err != nil {
			log.Error("failed to list courses", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// APICourseHandler returns one published course as JSON.
func APICourseHandler(catalog *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		course, err := catalog.GetPublishedCourse(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if services.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
				return
			}
			log.Error("failed to load course", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, course)
	}
}
