package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectern/courseport-backend/internal/response"
	"github.com/lectern/courseport-backend/internal/service"
)

// AdminHandler handles instructor maintenance operations.
type AdminHandler struct {
	studentService *service.StudentService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(studentService *service.StudentService) *AdminHandler {
	return &AdminHandler{studentService: studentService}
}

// ClearStudents godoc
// POST /api/v1/instructor/clear-students
// Wipes all student identities and enrollments. Instructor only (and
// the route group enforces that role before this handler runs).
func (h *AdminHandler) ClearStudents(c *gin.Context) {
	if err := h.studentService.ClearAll(c.Request.Context()); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "all student data cleared"})
}
