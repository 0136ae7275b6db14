package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/services"
)

// adminFormData is what admin_form.html renders.
type adminFormData struct {
	Title     string
	Token     string
	Action    string
	IsNew     bool
	Input     models.CourseInput
	Published bool
	Error     string
	Levels    []models.Level
	Formats   []models.Format
}

func newFormData(c *gin.Context, action string, isNew bool, in models.CourseInput) adminFormData {
	title := "Edit course"
	if isNew {
		title = "New course"
	}
	return adminFormData{
		Title:     title,
		Token:     c.GetString(adminTokenKey),
		Action:    action,
		IsNew:     isNew,
		Input:     in,
		Published: in.IsPublished != nil && *in.IsPublished,
		Levels:    []models.Level{models.LevelBeginner, models.LevelMiddle, models.LevelPro},
		Formats:   []models.Format{models.FormatOnline, models.FormatOffline, models.FormatMixed},
	}
}

// adminListURL is the admin list with the token carried over.
func adminListURL(c *gin.Context) string {
	return "/admin/courses?" + url.Values{"token": {c.GetString(adminTokenKey)}}.Encode()
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// bindCourseForm reads the admin form. An HTML checkbox is absent when
// unchecked, so is_published is always set explicitly here.
func bindCourseForm(c *gin.Context) (models.CourseInput, error) {
	var in models.CourseInput
	if err := c.ShouldBind(&in); err != nil {
		return in, err
	}
	published := c.PostForm("is_published") != ""
	in.IsPublished = &published
	return in, nil
}

// errorStatus maps a course service error to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateSlug):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidCourse):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// formMessage is the user-visible text shown above the admin form.
func formMessage(err error) string {
	if errors.Is(err, apperrors.ErrDuplicateSlug) {
		return "This slug is already used by another course."
	}
	return err.Error()
}

// AdminListHandler renders every course, published or not, newest first.
func AdminListHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := courses.ListCourses(c.Request.Context())
		if err != nil {
			internalError(c, log, "failed to list courses", err)
			return
		}
		c.HTML(http.StatusOK, "admin_courses.html", gin.H{
			"Title":   "Admin: courses",
			"Token":   c.GetString(adminTokenKey),
			"Courses": list,
		})
	}
}

// AdminNewFormHandler renders an empty course form.
func AdminNewFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		published := true
		data := newFormData(c, "/admin/course/new", true, models.CourseInput{IsPublished: &published})
		c.HTML(http.StatusOK, "admin_form.html", data)
	}
}

// AdminCreateHandler creates a course from the admin form. Validation errors
// and duplicate slugs re-render the form with the submitted values.
func AdminCreateHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := bindCourseForm(c)
		if err != nil {
			data := newFormData(c, "/admin/course/new", true, in)
			data.Error = "Invalid form: " + err.Error()
			c.HTML(http.StatusBadRequest, "admin_form.html", data)
			return
		}

		if _, err := courses.CreateCourse(c.Request.Context(), in); err != nil {
			status := errorStatus(err)
			if status == http.StatusInternalServerError {
				internalError(c, log, "failed to create course", err)
				return
			}
			data := newFormData(c, "/admin/course/new", true, in)
			data.Error = formMessage(err)
			c.HTML(status, "admin_form.html", data)
			return
		}
		c.Redirect(http.StatusSeeOther, adminListURL(c))
	}
}

// AdminEditFormHandler renders the form of an existing course.
func AdminEditFormHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
			return
		}
		course, err := courses.GetCourse(c.Request.Context(), id)
		if err != nil {
			if services.IsNotFound(err) {
				c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
				return
			}
			internalError(c, log, "failed to load course", err)
			return
		}
		data := newFormData(c, "/admin/course/"+c.Param("id"), false, models.InputFromCourse(course))
		c.HTML(http.StatusOK, "admin_form.html", data)
	}
}

// AdminUpdateHandler saves the admin form over an existing course.
func AdminUpdateHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
			return
		}
		action := "/admin/course/" + c.Param("id")

		in, err := bindCourseForm(c)
		if err != nil {
			data := newFormData(c, action, false, in)
			data.Error = "Invalid form: " + err.Error()
			c.HTML(http.StatusBadRequest, "admin_form.html", data)
			return
		}

		if _, err := courses.UpdateCourse(c.Request.Context(), id, in); err != nil {
			status := errorStatus(err)
			switch status {
			case http.StatusInternalServerError:
				internalError(c, log, "failed to update course", err)
			case http.StatusNotFound:
				c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
			default:
				data := newFormData(c, action, false, in)
				data.Error = formMessage(err)
				c.HTML(status, "admin_form.html", data)
			}
			return
		}
		c.Redirect(http.StatusSeeOther, adminListURL(c))
	}
}

// AdminDeleteHandler hard-deletes a course and goes back to the list.
func AdminDeleteHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
			return
		}
		if err := courses.DeleteCourse(c.Request.Context(), id); err != nil {
			if services.IsNotFound(err) {
				c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
				return
			}
			internalError(c, log, "failed to delete course", err)
			return
		}
		c.Redirect(http.StatusSeeOther, adminListURL(c))
	}
}

func apiError(c *gin.Context, log *zap.Logger, msg string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// APIAdminListHandler returns every course as JSON, newest first.
func APIAdminListHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := courses.ListCourses(c.Request.Context())
		if err != nil {
			apiError(c, log, "failed to list courses", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"courses": list})
	}
}

// APIAdminCreateHandler creates a course from a JSON body.
func APIAdminCreateHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.CourseInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		course, err := courses.CreateCourse(c.Request.Context(), in)
		if err != nil {
			apiError(c, log, "failed to create course", err)
			return
		}
		c.JSON(http.StatusCreated, course)
	}
}

// APIAdminUpdateHandler replaces the editable fields of a course.
func APIAdminUpdateHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrCourseNotFound.Error()})
			return
		}
		var in models.CourseInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		course, err := courses.UpdateCourse(c.Request.Context(), id, in)
		if err != nil {
			apiError(c, log, "failed to update course", err)
			return
		}
		c.JSON(http.StatusOK, course)
	}
}

// APIAdminDeleteHandler deletes a course; its click log rows are kept.
func APIAdminDeleteHandler(courses *services.CourseService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrCourseNotFound.Error()})
			return
		}
		if err := courses.DeleteCourse(c.Request.Context(), id); err != nil {
			apiError(c, log, "failed to delete course", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
