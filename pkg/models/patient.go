package models

// Patient is a locally stored patient record. ID is opaque, assigned exactly
// once at creation, and never reused. FullName is required but not unique.
type Patient struct {
	ID                string           `json:"id"`
	FullName          string           `json:"fullName"`
	Email             string           `json:"email,omitempty"`
	DateOfBirth       string           `json:"dateOfBirth,omitempty"`
	Allergies         string           `json:"allergies,omitempty"`
	Medications       string           `json:"medications,omitempty"`
	ChronicConditions string           `json:"chronicConditions,omitempty"`
	PreviousSurgeries string           `json:"previousSurgeries,omitempty"`
	Analyses          []AnalysisRecord `json:"analyses"`
}
