package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lectern/courseport-backend/internal/middleware"
	"github.com/lectern/courseport-backend/internal/response"
	"github.com/lectern/courseport-backend/internal/service"
)

// ResourceHandler handles lecture/assignment uploads and downloads.
type ResourceHandler struct {
	resourceService *service.ResourceService
	accessService   *service.AccessService
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resourceService *service.ResourceService, accessService *service.AccessService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService, accessService: accessService}
}

// UploadLecture godoc
// POST /api/v1/courses/:id/lectures
// Multipart upload: title + file. Instructor only. Enrolled students are
// notified once the metadata row commits.
func (h *ResourceHandler) UploadLecture(c *gin.Context) {
	courseID, title, ok := h.uploadPreamble(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	lecture, err := h.resourceService.AddLecture(c.Request.Context(), courseID, title, file, header)
	if err != nil {
		failUpload(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"lecture": lecture})
}

// UploadAssignment godoc
// POST /api/v1/courses/:id/assignments
// Multipart upload: title + due_date + file. Instructor only.
func (h *ResourceHandler) UploadAssignment(c *gin.Context) {
	courseID, title, ok := h.uploadPreamble(c)
	if !ok {
		return
	}

	dueDate := strings.TrimSpace(c.PostForm("due_date"))
	if dueDate == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"due_date": "due_date is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	assignment, err := h.resourceService.AddAssignment(c.Request.Context(), courseID, title, dueDate, file, header)
	if err != nil {
		failUpload(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// DownloadLecture godoc
// GET /api/v1/courses/:id/lectures/:filename/download
// Streams a lecture file. Gated through the access control engine.
func (h *ResourceHandler) DownloadLecture(c *gin.Context) {
	h.download(c, service.KindLecture)
}

// DownloadAssignment godoc
// GET /api/v1/courses/:id/assignments/:filename/download
// Streams an assignment file. Gated through the access control engine.
func (h *ResourceHandler) DownloadAssignment(c *gin.Context) {
	h.download(c, service.KindAssignment)
}

func (h *ResourceHandler) download(c *gin.Context, kind service.ResourceKind) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sess := middleware.GetSession(c)
	if _, err := h.accessService.AuthorizeCourseContent(c.Request.Context(), sess, courseID); err != nil {
		failAccess(c, err)
		return
	}

	filename := c.Param("filename")
	path, err := h.resourceService.ResolveDownload(c.Request.Context(), courseID, kind, filename)
	if err != nil {
		if errors.Is(err, service.ErrFileMissing) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.FileAttachment(path, filename)
}

// uploadPreamble parses the course ID, enforces the instructor role and
// reads the common title field.
func (h *ResourceHandler) uploadPreamble(c *gin.Context) (courseID int, title string, ok bool) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, "", false
	}

	if err := h.accessService.AuthorizeInstructorAction(middleware.GetSession(c)); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrUnauthorized)
		return 0, "", false
	}

	title = strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"title": "title is required"})
		return 0, "", false
	}

	return courseID, title, true
}

func failUpload(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
