package ai

import (
	"fmt"

	"github.com/medicassist/medicassist/internal/ai/mock"
	"github.com/medicassist/medicassist/internal/ai/openai"
	"github.com/medicassist/medicassist/internal/config"
	"github.com/medicassist/medicassist/pkg/models"
)

// NewProvider constructs the appropriate inference provider based on config.
// Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.InferenceProvider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of openai, mock", cfg.Provider)
	}
}
