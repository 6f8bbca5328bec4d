package core

import "errors"

// The error taxonomy for a conversion run. Extraction, configuration and
// assembly errors are fatal and user-visible; backend failures are
// recoverable per chunk and trigger fallback to the next backend.
var (
	// ErrExtraction indicates the upstream text extraction failed
	// (unreadable, password-protected, or image-only document).
	ErrExtraction = errors.New("text extraction failed")

	// ErrUnknownVoice indicates the requested voice name is not registered.
	// Surfaced before any synthesis work begins.
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrUnknownMethod indicates the requested synthesis method identifier
	// is not one of the supported backends.
	ErrUnknownMethod = errors.New("unknown synthesis method")

	// ErrEmptyInput indicates the cleaned input text contains nothing to
	// synthesize. No artifact is written for empty input.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrBackendFailure wraps a single backend's failure for one chunk.
	ErrBackendFailure = errors.New("synthesis backend failure")

	// ErrAssembly indicates the final artifact could not be encoded or
	// written. No partial file is left behind.
	ErrAssembly = errors.New("audio assembly failed")
)
