package handler

import (
	"net/http"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/response"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/validator"
	"github.com/gin-gonic/gin"
)

// ClassLogHandler serves imported class logs.
type ClassLogHandler struct {
	classLogService *service.ClassLogService
}

// NewClassLogHandler creates a new ClassLogHandler.
func NewClassLogHandler(classLogService *service.ClassLogService) *ClassLogHandler {
	return &ClassLogHandler{classLogService: classLogService}
}

// ListClassLogs godoc
// GET /api/v1/admin/class-logs?student_class=&page=&per_page=
func (h *ClassLogHandler) ListClassLogs(c *gin.Context) {
	var q model.ListClassLogsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	logs, total, err := h.classLogService.List(c.Request.Context(), &q)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, logs, response.NewPagination(q.Page, q.PerPage, total))
}

// ListStudentClasses godoc
// GET /api/v1/admin/class-logs/classes
func (h *ClassLogHandler) ListStudentClasses(c *gin.Context) {
	classes, err := h.classLogService.ListStudentClasses(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_classes": classes})
}
