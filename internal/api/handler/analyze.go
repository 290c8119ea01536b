package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medicassist/medicassist/internal/ai"
	"github.com/medicassist/medicassist/internal/analysis"
	"github.com/medicassist/medicassist/internal/api/response"
	"github.com/medicassist/medicassist/pkg/models"
)

// Analyzer defines the interface the handler depends on.
type Analyzer interface {
	RunAnalysis(ctx context.Context, p analysis.Params) (*analysis.Result, error)
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
func NewAnalyzeHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Symptoms     string `json:"symptoms"`
			Language     string `json:"language"`
			ImageDataURI string `json:"imageDataUri"`
			PatientEmail string `json:"patientEmail"`
			PatientName  string `json:"patientName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.Symptoms == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "symptoms is required", nil)
			return
		}
		if req.Language == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "language is required", nil)
			return
		}
		lang := models.Language(req.Language)
		if !lang.Valid() {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"language must be one of en, fr, es, de", nil)
			return
		}

		result, err := svc.RunAnalysis(r.Context(), analysis.Params{
			Symptoms:     req.Symptoms,
			Language:     lang,
			ImageDataURI: req.ImageDataURI,
			PatientName:  req.PatientName,
			NotifyEmail:  req.PatientEmail,
		})
		if err != nil {
			switch {
			case errors.Is(err, analysis.ErrSymptomsRequired):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"symptoms is required", nil)
			case errors.Is(err, analysis.ErrEmptyAnalysis):
				response.Error(w, http.StatusInternalServerError, "EMPTY_ANALYSIS",
					"Could not analyze symptoms. The model returned an empty result. Please try rephrasing.", nil)
			case errors.Is(err, ai.ErrInferenceTimeout):
				response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
					"Symptom analysis took too long and was cancelled", nil)
			case errors.Is(err, ai.ErrProviderUnavailable), errors.Is(err, ai.ErrInvalidResponse):
				response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
					"The AI provider is not available. Please try again later.", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, analyzeResponse{
			Analysis: result.Analysis,
			Advice:   result.Advice,
			Warnings: result.Warnings,
		})
	}
}

type analyzeResponse struct {
	Analysis models.AnalysisOutput `json:"analysis"`
	Advice   models.AdviceOutput   `json:"advice"`
	Warnings []string              `json:"warnings,omitempty"`
}
