package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/report"
)

// ReportHandler exports stored predictions as PDF or CSV downloads
type ReportHandler struct {
	service prediction.Service
	logger  *logger.Logger
}

func NewReportHandler(service prediction.Service, log *logger.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: log}
}

// PDF downloads a prediction report
// @Summary PDF report
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Prediction ID"
// @Success 200 {file} binary
// @Failure 401 {object} utils.ErrorResponse "Not the owner"
// @Failure 404 {object} utils.ErrorResponse
// @Router /predict/report/pdf/{id} [get]
func (h *ReportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, report.FormatPDF)
}

// CSV downloads a prediction as a Category,Metric,Value table
// @Summary CSV report
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Prediction ID"
// @Success 200 {file} binary
// @Failure 401 {object} utils.ErrorResponse "Not the owner"
// @Failure 404 {object} utils.ErrorResponse
// @Router /predict/report/csv/{id} [get]
func (h *ReportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, report.FormatCSV)
}

func (h *ReportHandler) render(w http.ResponseWriter, r *http.Request, f report.Format) {
	p, err := h.service.Get(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := report.Render(f, p)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"prediction_id": p.ID,
			"format":        string(f),
		}).WithError(err).Error("Report rendering failed")
		writeError(w, errors.Internal("Failed to render report", err))
		return
	}

	utils.WriteAttachment(w, f.ContentType(), f.Filename(p), body)
}
