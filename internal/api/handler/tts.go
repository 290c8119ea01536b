package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medicassist/medicassist/internal/ai"
	"github.com/medicassist/medicassist/internal/api/response"
)

// Speaker defines the interface the handler depends on.
type Speaker interface {
	Speak(ctx context.Context, text string) (string, error)
}

// NewTTSHandler returns an http.HandlerFunc for POST /api/v1/tts.
func NewTTSHandler(bridge Speaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TextToSpeak string `json:"textToSpeak"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.TextToSpeak == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "textToSpeak is required", nil)
			return
		}

		audioDataURI, err := bridge.Speak(r.Context(), req.TextToSpeak)
		if err != nil {
			switch {
			case errors.Is(err, ai.ErrInferenceTimeout):
				response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
					"Speech synthesis took too long and was cancelled", nil)
			case errors.Is(err, ai.ErrProviderUnavailable), errors.Is(err, ai.ErrInvalidResponse):
				response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
					"Failed to generate audio. Please try again later.", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, map[string]string{"audioDataUri": audioDataURI})
	}
}
