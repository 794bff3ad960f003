package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lectern/courseport-backend/internal/middleware"
	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/response"
	"github.com/lectern/courseport-backend/internal/service"
	"github.com/lectern/courseport-backend/internal/validator"
)

// CourseHandler handles course listing, detail, and management.
type CourseHandler struct {
	courseService *service.CourseService
	accessService *service.AccessService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, accessService *service.AccessService) *CourseHandler {
	return &CourseHandler{courseService: courseService, accessService: accessService}
}

// ListCourses godoc
// GET /api/v1/courses
// Lists all courses. Anonymous access depends on the listing policy;
// course detail is always gated regardless.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	sess := middleware.GetSession(c)

	if err := h.accessService.AuthorizeListing(sess); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrAuthenticationRequired)
		return
	}

	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/courses/:id
// Returns the caller-specific view of one course through the access
// control engine.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sess := middleware.GetSession(c)

	view, err := h.accessService.AuthorizeCourseView(c.Request.Context(), sess, id)
	if err != nil {
		failAccess(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// CreateCourse godoc
// POST /api/v1/courses
// Publishes a new course. Instructor only.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	if err := h.accessService.AuthorizeInstructorAction(middleware.GetSession(c)); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrUnauthorized)
		return
	}

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course := &model.Course{
		Title:       req.Title,
		Instructor:  req.Instructor,
		Description: req.Description,
	}
	if req.SubmissionURL != "" {
		course.SubmissionURL = &req.SubmissionURL
	}

	if err := h.courseService.Create(c.Request.Context(), course); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// DeleteCourse godoc
// DELETE /api/v1/courses/:id
// Deletes a course; dependent enrollments, lectures and assignments are
// removed by the cascade constraints. Instructor only.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.accessService.AuthorizeInstructorAction(middleware.GetSession(c)); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrUnauthorized)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "course deleted successfully"})
}

// failAccess maps access control sentinels onto HTTP outcomes. Each deny
// reason is a distinct, user-visible response; a missing course is not a
// denial at all.
func failAccess(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrAuthenticationRequired):
		response.Fail(c, http.StatusUnauthorized, response.ErrAuthenticationRequired)
	case errors.Is(err, service.ErrUnauthorized):
		response.Fail(c, http.StatusForbidden, response.ErrUnauthorized)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
