package handlers

import (
	"net/http"

	"github.com/projectcostai/projectcostai/internal/api/dto"
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/pkg/validator"
)

// PredictionHandler serves the estimation endpoints
type PredictionHandler struct {
	service   prediction.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewPredictionHandler(service prediction.Service, log *logger.Logger, val *validator.Validator) *PredictionHandler {
	return &PredictionHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Predict runs the combined cost and timeline predictor
// @Summary Predict cost and timeline
// @Description Stores the request and runs the numeric predictor. When the estimator is unavailable the record stays pending_ml and the estimate fields are null.
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PredictRequest true "Project inputs"
// @Success 200 {object} dto.PredictResponse
// @Failure 400 {object} utils.ErrorResponse "Missing or invalid inputs"
// @Failure 401 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /predict [post]
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	raw, err := decodeJSONWithRaw(w, r, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validate(h.validator, req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.service.Submit(r.Context(), caller(r), req.ToSubmission(raw))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dto.NewPredictResponse(res))
}

// @Summary Risk analysis
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalysisRequest true "Project parameters"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 500 {object} utils.ErrorResponse "Estimator failed"
// @Router /predict/risk-analysis [post]
func (h *PredictionHandler) Risk(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, prediction.AnalysisRisk)
}

// @Summary Cost breakdown
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalysisRequest true "Project parameters"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 500 {object} utils.ErrorResponse "Estimator failed"
// @Router /predict/cost-breakdown [post]
func (h *PredictionHandler) Cost(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, prediction.AnalysisCost)
}

// @Summary Timeline breakdown
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalysisRequest true "Project parameters"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 500 {object} utils.ErrorResponse "Estimator failed"
// @Router /predict/timeline-breakdown [post]
func (h *PredictionHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, prediction.AnalysisTimeline)
}

// @Summary Recommendations
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalysisRequest true "Project parameters"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 500 {object} utils.ErrorResponse "Estimator failed"
// @Router /predict/recommendations [post]
func (h *PredictionHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, prediction.AnalysisRecommendations)
}

// FullAnalysis runs all four estimates concurrently and stores one record
// @Summary Full analysis
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalysisRequest true "Project parameters"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 500 {object} utils.ErrorResponse "Estimator failed"
// @Router /predict/full-analysis [post]
func (h *PredictionHandler) FullAnalysis(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, prediction.AnalysisFull)
}

func (h *PredictionHandler) analyze(w http.ResponseWriter, r *http.Request, kind prediction.Analysis) {
	var req dto.AnalysisRequest
	raw, err := decodeJSONWithRaw(w, r, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validate(h.validator, req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.service.Analyze(r.Context(), caller(r), kind, req.ToDomain(raw))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.AnalysisResponse{
		Success:      true,
		Data:         res.Data,
		PredictionID: res.Prediction.ID,
	})
}
