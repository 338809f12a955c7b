package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/response"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ImportHandler exposes the manual import trigger and its reports.
type ImportHandler struct {
	importService *service.ImportService
	lifetime      context.Context
	log           zerolog.Logger
}

// NewImportHandler creates a new ImportHandler. Manual runs are cancelled
// only when lifetime is done, never by the client going away.
func NewImportHandler(importService *service.ImportService, lifetime context.Context, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		lifetime:      lifetime,
		log:           log.With().Str("component", "import_handler").Logger(),
	}
}

type importResult struct {
	Report *model.ImportReport `json:"report"`
	Text   string              `json:"text"`
}

// TriggerImport godoc
// POST /api/v1/admin/class-logs/import
// Runs an import now and returns its report. Responds 409 while another run
// is active.
func (h *ImportHandler) TriggerImport(c *gin.Context) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()
	stop := context.AfterFunc(h.lifetime, cancel)
	defer stop()

	report, err := h.importService.RunImport(ctx, model.TriggerManual)
	if errors.Is(err, service.ErrImportInProgress) {
		response.Fail(c, http.StatusConflict, response.ErrImportInProgress)
		return
	}
	if report == nil {
		h.log.Error().Err(err).Msg("Manual import could not start")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	result := importResult{Report: report, Text: report.Text()}
	if err != nil {
		response.FailWithData(c, http.StatusInternalServerError, response.ErrImportFailed, result)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetLastReport godoc
// GET /api/v1/admin/class-logs/import/last
// Returns the report of the most recent run from any process.
func (h *ImportHandler) GetLastReport(c *gin.Context) {
	report, err := h.importService.LastReport(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoReport) {
			response.Fail(c, http.StatusNotFound, response.ErrNoImportReport)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, importResult{Report: report, Text: report.Text()})
}
