package models

import (
	"strings"
	"time"
)

// PossibleCondition is a single condition suggested by the inference
// provider. Immutable once returned.
type PossibleCondition struct {
	Condition       string  `json:"condition"`
	ConfidenceScore float64 `json:"confidenceScore"` // in [0, 1]
	Explanation     string  `json:"explanation"`
}

// AnalysisOutput is the result of a condition-inference call.
// PossibleConditions is non-empty on success and ordered by the provider.
type AnalysisOutput struct {
	Summary            string              `json:"summary"`
	ImageAnalysis      string              `json:"imageAnalysis,omitempty"`
	PossibleConditions []PossibleCondition `json:"possibleConditions"`
}

// AdviceOutput holds generated first-aid advice as a newline-delimited
// ordered list of steps, each optionally prefixed with a numeral.
type AdviceOutput struct {
	Advice string `json:"advice"`
}

// Steps splits the advice into individual display-ready steps, stripping
// leading numerals ("1.", "2)", "3 -") that the model emits for numbered
// lists. Blank lines are dropped.
func (a AdviceOutput) Steps() []string {
	lines := strings.Split(a.Advice, "\n")
	steps := make([]string, 0, len(lines))
	for _, line := range lines {
		step := stripStepPrefix(strings.TrimSpace(line))
		if step != "" {
			steps = append(steps, step)
		}
	}
	return steps
}

// stripStepPrefix removes a leading numeral plus its separator, if present.
func stripStepPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return s
	}
	rest := s[i:]
	for len(rest) > 0 && (rest[0] == '.' || rest[0] == ')' || rest[0] == '-' || rest[0] == ' ') {
		rest = rest[1:]
	}
	if rest == "" {
		return s
	}
	return rest
}

// MedicalAnalysis is the composed result of one analysis pipeline run.
// Transient: owned by the caller, never persisted on its own.
type MedicalAnalysis struct {
	Analysis AnalysisOutput `json:"analysis"`
	Advice   AdviceOutput   `json:"advice"`
}

// AnalysisRecord is one append-only entry in a patient's history. Entries are
// never mutated or reordered after insertion.
type AnalysisRecord struct {
	AnalysisDate time.Time      `json:"analysisDate"`
	Symptoms     string         `json:"symptoms"`
	Analysis     AnalysisOutput `json:"analysis"`
	Advice       AdviceOutput   `json:"advice"`
}
