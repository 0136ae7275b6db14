package api

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/axellelanca/coursecatalog/internal/metrics"
	"github.com/axellelanca/coursecatalog/internal/services"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Dependencies groups everything the routes need. AdminToken is the shared
// secret of the admin area; an empty token locks the admin area.
type Dependencies struct {
	Catalog  *services.CatalogService
	Tracking *services.TrackingService
	Courses  *services.CourseService
	Metrics  *metrics.Metrics
	Log      *zap.Logger

	AdminToken     string
	PageSize       int // HTML catalog pages
	APIPageSize    int // default per_page of /api/courses
	APIMaxPageSize int
	HomeLimit      int // courses shown on the home page
}

// NewRouter builds the gin engine with middleware, templates, static assets and routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(deps.Log), deps.Metrics.Middleware())

	tmpl, err := template.New("").ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}
	router.StaticFS("/static", http.FS(static))

	SetupRoutes(router, deps)
	return router, nil
}

// SetupRoutes configures all routes and injects the dependencies.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Public catalog
	router.GET("/", HomeHandler(deps.Catalog, deps.HomeLimit, deps.Log))
	router.GET("/courses", CatalogPageHandler(deps.Catalog, deps.PageSize, deps.Log))
	router.GET("/category/:category_slug", CatalogPageHandler(deps.Catalog, deps.PageSize, deps.Log))
	router.GET("/course/:slug", CourseDetailHandler(deps.Catalog, deps.Log))
	router.GET("/out/:slug", RedirectHandler(deps.Tracking, deps.Metrics, deps.Log))

	api := router.Group("/api")
	{
		api.GET("/courses", APICoursesHandler(deps.Catalog, deps.APIPageSize, deps.APIMaxPageSize, deps.Log))
		api.GET("/course/:slug", APICourseHandler(deps.Catalog, deps.Log))
	}

	// Admin area, every route gated by the shared token
	admin := router.Group("/admin", AdminAuth(deps.AdminToken))
	{
		admin.GET("/courses", AdminListHandler(deps.Courses, deps.Log))
		admin.POST("/courses", AdminCreateHandler(deps.Courses, deps.Log))
		admin.GET("/course/new", AdminNewFormHandler())
		admin.POST("/course/new", AdminCreateHandler(deps.Courses, deps.Log))
		admin.GET("/course/:id", AdminEditFormHandler(deps.Courses, deps.Log))
		admin.POST("/course/:id", AdminUpdateHandler(deps.Courses, deps.Log))
		admin.GET("/delete/:id", AdminDeleteHandler(deps.Courses, deps.Log))
	}

	adminAPI := router.Group("/api/admin", AdminAuth(deps.AdminToken))
	{
		adminAPI.GET("/courses", APIAdminListHandler(deps.Courses, deps.Log))
		adminAPI.POST("/courses", APIAdminCreateHandler(deps.Courses, deps.Log))
		adminAPI.PUT("/course/:id", APIAdminUpdateHandler(deps.Courses, deps.Log))
		adminAPI.DELETE("/course/:id", APIAdminDeleteHandler(deps.Courses, deps.Log))
	}

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
	})
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
