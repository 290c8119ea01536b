// Package notify delivers analysis results to a patient-supplied contact.
// Delivery is best-effort: the caller reports failures but never fails the
// analysis because of them.
package notify

import (
	"context"
	"log/slog"

	"github.com/medicassist/medicassist/pkg/models"
)

// Notifier sends a completed analysis to a notification target.
type Notifier interface {
	SendAnalysis(ctx context.Context, email string, analysis models.MedicalAnalysis) error
}

// LogNotifier writes the notification to the server log instead of sending
// mail. Swap in an SMTP- or API-backed Notifier for real delivery.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) SendAnalysis(_ context.Context, email string, analysis models.MedicalAnalysis) error {
	slog.Info("analysis notification",
		"to", email,
		"subject", "Your MedicAssist Analysis Results",
		"summary", analysis.Analysis.Summary,
		"advice_steps", len(analysis.Advice.Steps()),
	)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
