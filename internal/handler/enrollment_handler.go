package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lectern/courseport-backend/internal/middleware"
	"github.com/lectern/courseport-backend/internal/response"
	"github.com/lectern/courseport-backend/internal/service"
)

// EnrollmentHandler handles enrollment and the student dashboard.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Enroll godoc
// POST /api/v1/courses/:id/enroll
// Enrolls the authenticated student. Re-enrolling is a successful no-op
// reported as created=false.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sess := middleware.GetSession(c)

	result, err := h.enrollmentService.Enroll(c.Request.Context(), sess.StudentID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrSessionInvalid):
			response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, result)
}

// Dashboard godoc
// GET /api/v1/student/dashboard
// Lists the courses the authenticated student is enrolled in.
func (h *EnrollmentHandler) Dashboard(c *gin.Context) {
	sess := middleware.GetSession(c)

	courses, err := h.enrollmentService.ListEnrolledCourses(c.Request.Context(), sess.StudentID)
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}
