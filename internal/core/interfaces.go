// Package core defines the core business logic interfaces and error
// taxonomy for the audiobook-service.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
// Delete is idempotent: removing an absent key is not an error.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// TextExtractor produces cleaned document text from a file on disk.
// Implementations treat the underlying parser as an opaque collaborator:
// the pipeline only ever sees a text string or an extraction error.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// RenderOptions holds the per-job customization of an audiobook rendering.
// Zero values fall back to the configured defaults.
type RenderOptions struct {
	Voice        string
	Method       string
	MaxChunkSize int
}

// Renderer converts cleaned text into a finished WAV-encoded audiobook.
// The NATS worker depends on this interface so the full synthesis pipeline
// can be substituted in tests.
type Renderer interface {
	Render(ctx context.Context, text string, opts RenderOptions) ([]byte, error)
}
