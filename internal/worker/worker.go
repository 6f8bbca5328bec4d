// Package worker provides a NATS worker that renders narration jobs
// into audio chunks.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/audiobook-service/internal/core"
)

// handleMessageTimeout bounds one render job end to end, including the
// object store round trips.
const handleMessageTimeout = 5 * time.Minute

// Defaults applies the service configuration to jobs that leave a field
// unset.
type Defaults struct {
	Voice        string
	Method       string
	MaxChunkSize int
}

// NatsWorker listens for narration jobs on a NATS subject, renders them
// and publishes the resulting audio chunk events.
type NatsWorker struct {
	natsConnection   *nats.Conn
	jetstreamContext nats.JetStreamContext
	subject          string
	textStore        core.ObjectStore
	audioStore       core.ObjectStore
	renderer         core.Renderer
	defaults         Defaults
	log              *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	jetstreamContext nats.JetStreamContext,
	subject string,
	textStore core.ObjectStore,
	audioStore core.ObjectStore,
	renderer core.Renderer,
	defaults Defaults,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection:   natsConnection,
		jetstreamContext: jetstreamContext,
		subject:          subject,
		textStore:        textStore,
		audioStore:       audioStore,
		renderer:         renderer,
		defaults:         defaults,
		log:              log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := parseEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse narration event: %v", err)

		return
	}

	audioKey, renderErr := w.renderJob(ctx, event)
	if renderErr != nil {
		w.log.Error("Failed to render narration job for workflow %s: %v", event.Header.WorkflowID, renderErr)

		return
	}

	replyEvent := &events.AudioChunkCreatedEvent{
		Header:     event.Header,
		AudioKey:   audioKey,
		PageNumber: event.PageNumber,
		TotalPages: event.TotalPages,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v", event.Header.WorkflowID, err)
	}
}

// renderJob downloads the narration text, renders it and uploads the
// finished audio, returning the object store key of the chunk.
func (w *NatsWorker) renderJob(ctx context.Context, event *events.TextProcessedEvent) (string, error) {
	textData, err := w.textStore.Download(ctx, event.TextKey)
	if err != nil {
		return "", fmt.Errorf("failed to download text data for key '%s': %w", event.TextKey, err)
	}

	opts := core.RenderOptions{
		Voice:        event.Voice,
		Method:       w.defaults.Method,
		MaxChunkSize: w.defaults.MaxChunkSize,
	}

	if strings.TrimSpace(opts.Voice) == "" {
		opts.Voice = w.defaults.Voice
	}

	audioData, err := w.renderer.Render(ctx, string(textData), opts)
	if err != nil {
		return "", fmt.Errorf("failed to render narration: %w", err)
	}

	audioKey := uuid.NewString() + ".wav"

	err = w.audioStore.Upload(ctx, audioKey, audioData)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio data for key '%s': %w", audioKey, err)
	}

	// The text key is consumed: once the audio chunk is safely stored,
	// the source text has no further reader. A failed cleanup must not
	// fail the job.
	deleteErr := w.textStore.Delete(ctx, event.TextKey)
	if deleteErr != nil {
		w.log.Warn("Failed to delete consumed text key '%s': %v", event.TextKey, deleteErr)
	}

	return audioKey, nil
}

// publishReplyEvent marshals and responds with the AudioChunkCreatedEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *events.AudioChunkCreatedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func parseEvent(msg *nats.Msg) (*events.TextProcessedEvent, error) {
	var event events.TextProcessedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}
