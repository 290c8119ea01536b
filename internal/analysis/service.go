// Package analysis drives the symptom-analysis pipeline: infer conditions,
// derive first-aid advice, then best-effort patient association and
// notification.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/medicassist/medicassist/internal/notify"
	"github.com/medicassist/medicassist/internal/store"
	"github.com/medicassist/medicassist/pkg/models"
)

var (
	// ErrSymptomsRequired is a caller-correctable validation failure.
	ErrSymptomsRequired = errors.New("symptoms must not be empty")
	// ErrEmptyAnalysis means inference succeeded transport-wise but yielded
	// no usable conditions. Distinct from a gateway failure: the user should
	// rephrase rather than retry.
	ErrEmptyAnalysis = errors.New("could not analyze symptoms: the model returned an empty result, please try rephrasing")
)

// Params holds the input for one pipeline run.
type Params struct {
	Symptoms     string
	Language     models.Language
	ImageDataURI string // optional
	PatientName  string // optional: associates the result with a patient record
	NotifyEmail  string // optional: dispatches a result notification
}

// Result is the pipeline output. Warnings report best-effort side effects
// (association, notification) that failed without affecting the analysis.
type Result struct {
	models.MedicalAnalysis
	Warnings []string `json:"warnings,omitempty"`
}

// Service orchestrates the analysis pipeline.
type Service struct {
	provider models.InferenceProvider
	store    store.Store
	notifier notify.Notifier
	timeout  time.Duration
	now      func() time.Time
}

// NewService creates a Service. timeout bounds each individual gateway call.
func NewService(provider models.InferenceProvider, st store.Store, notifier notify.Notifier, timeout time.Duration) *Service {
	return &Service{
		provider: provider,
		store:    st,
		notifier: notifier,
		timeout:  timeout,
		now:      time.Now,
	}
}

// RunAnalysis executes the pipeline stages strictly in order. Any gateway
// failure is terminal for the invocation: no retry, no partial result. The
// advice call always observes the completed condition inference, and the
// comma-joined condition order fed to it matches the inference output.
func (s *Service) RunAnalysis(ctx context.Context, p Params) (*Result, error) {
	if strings.TrimSpace(p.Symptoms) == "" {
		return nil, ErrSymptomsRequired
	}

	inferCtx, cancel := context.WithTimeout(ctx, s.timeout)
	analysis, err := s.provider.InferConditions(inferCtx, models.InferenceRequest{
		Symptoms:     p.Symptoms,
		ImageDataURI: p.ImageDataURI,
		Language:     p.Language,
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("inferring conditions: %w", err)
	}

	if len(analysis.PossibleConditions) == 0 {
		return nil, ErrEmptyAnalysis
	}

	names := make([]string, len(analysis.PossibleConditions))
	for i, c := range analysis.PossibleConditions {
		names[i] = c.Condition
	}
	suggestedConditions := strings.Join(names, ", ")

	adviceCtx, cancel := context.WithTimeout(ctx, s.timeout)
	advice, err := s.provider.GenerateAdvice(adviceCtx, models.AdviceRequest{
		Symptoms:            p.Symptoms,
		SuggestedConditions: suggestedConditions,
		Language:            p.Language,
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("generating advice: %w", err)
	}

	result := &Result{
		MedicalAnalysis: models.MedicalAnalysis{Analysis: analysis, Advice: advice},
	}

	// An abandoned invocation must not partially persist.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.PatientName != "" {
		if err := s.associate(ctx, p.PatientName, p.Symptoms, result.MedicalAnalysis); err != nil {
			slog.Warn("patient association failed", "patient", p.PatientName, "error", err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("analysis completed but could not be saved to patient history: %v", err))
		}
	}

	if p.NotifyEmail != "" {
		if err := s.notifier.SendAnalysis(ctx, p.NotifyEmail, result.MedicalAnalysis); err != nil {
			slog.Warn("analysis notification failed", "error", err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("analysis completed but the notification could not be sent: %v", err))
		}
	}

	return result, nil
}

// associate appends the analysis to the named patient's history, creating
// the patient when the name matches nothing. The match is case-insensitive
// exact full-name equality.
func (s *Service) associate(ctx context.Context, name, symptoms string, m models.MedicalAnalysis) error {
	record := models.AnalysisRecord{
		AnalysisDate: s.now().UTC(),
		Symptoms:     symptoms,
		Analysis:     m.Analysis,
		Advice:       m.Advice,
	}

	patient, err := s.store.FindByFullName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		_, err := s.store.Upsert(ctx, models.Patient{
			FullName: name,
			Analyses: []models.AnalysisRecord{record},
		})
		return err
	}
	if err != nil {
		return err
	}

	_, err = s.store.AppendAnalysis(ctx, patient.ID, record)
	return err
}
