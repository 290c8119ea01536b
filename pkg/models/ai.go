// Package models contains shared data models used across the MedicAssist codebase.
package models

import "context"

// InferenceProvider is the core interface that all generative AI integrations
// must implement. Never call specific AI providers directly — always inject
// this interface.
type InferenceProvider interface {
	// InferConditions analyzes described symptoms (optionally with a photo)
	// and returns a summary plus confidence-ranked possible conditions.
	InferConditions(ctx context.Context, req InferenceRequest) (AnalysisOutput, error)
	// GenerateAdvice produces first-aid advice for the symptoms and the
	// conditions suggested by a prior InferConditions call.
	GenerateAdvice(ctx context.Context, req AdviceRequest) (AdviceOutput, error)
	// SynthesizeSpeech converts text into spoken audio and returns it as a
	// base64 data URI.
	SynthesizeSpeech(ctx context.Context, text string) (string, error)
	// Name returns the provider identifier (e.g., "openai", "mock").
	Name() string
}

// InferenceRequest is the input to a condition-inference operation.
type InferenceRequest struct {
	Symptoms     string
	ImageDataURI string // optional photo of the affected area, as a data URI
	Language     Language
}

// AdviceRequest is the input to an advice-generation operation.
// SuggestedConditions is the comma-joined condition list from a prior
// inference result; its order is part of the prompt contract.
type AdviceRequest struct {
	Symptoms            string
	SuggestedConditions string
	Language            Language
}

// Language identifies the output language for generated content.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageSpanish Language = "es"
	LanguageGerman  Language = "de"
)

// Valid reports whether l is one of the supported output languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageFrench, LanguageSpanish, LanguageGerman:
		return true
	}
	return false
}
