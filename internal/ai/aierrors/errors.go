// Package aierrors holds the inference sentinel errors in a leaf package so
// that both the ai factory package and the provider implementations can
// reference them without an import cycle.
package aierrors

import "errors"

var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)
