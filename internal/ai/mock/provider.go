package mock

import (
	"context"

	"github.com/medicassist/medicassist/pkg/models"
)

// MockProvider satisfies models.InferenceProvider for testing.
type MockProvider struct {
	Name_               string
	InferConditionsFunc func(ctx context.Context, req models.InferenceRequest) (models.AnalysisOutput, error)
	GenerateAdviceFunc  func(ctx context.Context, req models.AdviceRequest) (models.AdviceOutput, error)
	SynthesizeFunc      func(ctx context.Context, text string) (string, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) InferConditions(ctx context.Context, req models.InferenceRequest) (models.AnalysisOutput, error) {
	if m.InferConditionsFunc != nil {
		return m.InferConditionsFunc(ctx, req)
	}
	return models.AnalysisOutput{}, nil
}

func (m *MockProvider) GenerateAdvice(ctx context.Context, req models.AdviceRequest) (models.AdviceOutput, error) {
	if m.GenerateAdviceFunc != nil {
		return m.GenerateAdviceFunc(ctx, req)
	}
	return models.AdviceOutput{}, nil
}

func (m *MockProvider) SynthesizeSpeech(ctx context.Context, text string) (string, error) {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return "", nil
}

// NewProvider returns a MockProvider with sensible default responses.
func NewProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		InferConditionsFunc: func(_ context.Context, req models.InferenceRequest) (models.AnalysisOutput, error) {
			return models.AnalysisOutput{
				Summary: "Mock analysis of: " + req.Symptoms,
				PossibleConditions: []models.PossibleCondition{
					{Condition: "Common cold", ConfidenceScore: 0.7, Explanation: "Simulated condition from mock provider"},
					{Condition: "Seasonal allergy", ConfidenceScore: 0.4, Explanation: "Simulated condition from mock provider"},
				},
			}, nil
		},
		GenerateAdviceFunc: func(_ context.Context, _ models.AdviceRequest) (models.AdviceOutput, error) {
			return models.AdviceOutput{Advice: "1. Rest and stay hydrated.\n2. Monitor your temperature.\n3. Seek medical help if symptoms worsen."}, nil
		},
		SynthesizeFunc: func(_ context.Context, _ string) (string, error) {
			return "data:audio/mpeg;base64,bW9jaw==", nil
		},
	}
}

// NewFailingProvider returns a MockProvider whose every operation returns err.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		InferConditionsFunc: func(_ context.Context, _ models.InferenceRequest) (models.AnalysisOutput, error) {
			return models.AnalysisOutput{}, err
		},
		GenerateAdviceFunc: func(_ context.Context, _ models.AdviceRequest) (models.AdviceOutput, error) {
			return models.AdviceOutput{}, err
		},
		SynthesizeFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// Compile-time check that MockProvider implements InferenceProvider.
var _ models.InferenceProvider = (*MockProvider)(nil)
