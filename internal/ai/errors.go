package ai

import "github.com/medicassist/medicassist/internal/ai/aierrors"

// The sentinels live in the aierrors leaf package so provider
// implementations under internal/ai/ can wrap them without importing
// this package (which imports them back, forming a cycle).
var (
	ErrProviderUnavailable = aierrors.ErrProviderUnavailable
	ErrInferenceTimeout    = aierrors.ErrInferenceTimeout
	ErrInvalidResponse     = aierrors.ErrInvalidResponse
)
