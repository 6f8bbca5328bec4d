package synth

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	tts "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/tts/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// Cloud synthesis defaults.
const (
	DefaultCloudEndpoint = "tts.api.cloud.yandex.net:443"
	DefaultCloudTimeout  = 30 * time.Second

	cloudModel = "general"
)

// Static errors.
var (
	ErrCloudAPIKeyMissing = errors.New("cloud synthesis API key is not set")
	ErrCloudEmptyAudio    = errors.New("cloud service returned no audio data")
)

// CloudConfig holds the connection settings for the cloud synthesis service.
type CloudConfig struct {
	Endpoint string
	APIKey   string
	FolderID string
	Timeout  time.Duration
}

// CloudBackend delegates synthesis to a network speech service over gRPC.
// Every call is bounded by the configured timeout so one unresponsive
// chunk cannot stall the whole job; timeouts, rate limits and service
// errors are all recoverable backend failures.
type CloudBackend struct {
	client tts.SynthesizerClient
	conn   *grpc.ClientConn
	config CloudConfig
}

// NewCloudBackend dials the cloud synthesis service. The connection is
// established lazily by gRPC, so construction succeeds even while the
// network is down; unavailability surfaces per call instead.
func NewCloudBackend(config CloudConfig) (*CloudBackend, error) {
	if config.Endpoint == "" {
		config.Endpoint = DefaultCloudEndpoint
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultCloudTimeout
	}

	conn, err := grpc.NewClient(
		config.Endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cloud synthesis service: %w", err)
	}

	return &CloudBackend{
		client: tts.NewSynthesizerClient(conn),
		conn:   conn,
		config: config,
	}, nil
}

// Name returns the backend's method identifier.
func (b *CloudBackend) Name() string {
	return string(MethodCloud)
}

// Synthesize streams the synthesized utterance from the cloud service and
// decodes the collected payload.
func (b *CloudBackend) Synthesize(
	ctx context.Context,
	chunkText string,
	profile voice.Profile,
) (audio.Clip, error) {
	if b.config.APIKey == "" {
		return audio.Clip{}, backendFailure(b.Name(), ErrCloudAPIKeyMissing)
	}

	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Api-Key "+b.config.APIKey)
	if b.config.FolderID != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-folder-id", b.config.FolderID)
	}

	stream, err := b.client.UtteranceSynthesis(ctx, b.buildRequest(chunkText, profile))
	if err != nil {
		return audio.Clip{}, backendFailure(b.Name(),
			fmt.Errorf("failed to start synthesis: %w", err))
	}

	payload, err := collectAudio(stream)
	if err != nil {
		return audio.Clip{}, backendFailure(b.Name(), err)
	}

	clip, err := decodeCloudPayload(payload)
	if err != nil {
		return audio.Clip{}, backendFailure(b.Name(), err)
	}

	return clip, nil
}

// Close releases the gRPC connection.
func (b *CloudBackend) Close() error {
	err := b.conn.Close()
	if err != nil {
		return fmt.Errorf("failed to close cloud synthesis connection: %w", err)
	}

	return nil
}

func (b *CloudBackend) buildRequest(chunkText string, profile voice.Profile) *tts.UtteranceSynthesisRequest {
	req := &tts.UtteranceSynthesisRequest{}
	req.SetModel(cloudModel)
	req.SetText(chunkText)

	voiceHint := &tts.Hints{}
	voiceHint.SetVoice(cloudVoice(profile))

	speedHint := &tts.Hints{}
	speedHint.SetSpeed(1.0)

	req.SetHints([]*tts.Hints{voiceHint, speedHint})

	containerAudio := &tts.ContainerAudio{}
	containerAudio.SetContainerAudioType(tts.ContainerAudio_WAV)

	audioSpec := &tts.AudioFormatOptions{}
	audioSpec.SetContainerAudio(containerAudio)
	req.SetOutputAudioSpec(audioSpec)

	req.SetLoudnessNormalizationType(tts.UtteranceSynthesisRequest_LUFS)

	return req
}

// cloudVoice maps a profile onto a service voice keyed by the language
// tag's gender/style.
func cloudVoice(profile voice.Profile) string {
	if profile.Gender == voice.GenderFemale {
		return "jane"
	}

	return "john"
}

func collectAudio(stream tts.Synthesizer_UtteranceSynthesisClient) ([]byte, error) {
	var payload bytes.Buffer

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to receive audio data: %w", err)
		}

		if chunk := resp.GetAudioChunk(); chunk != nil {
			payload.Write(chunk.GetData())
		}
	}

	if payload.Len() == 0 {
		return nil, ErrCloudEmptyAudio
	}

	return payload.Bytes(), nil
}

// decodeCloudPayload handles both containers the service is known to
// return: WAV when requested, MP3 on configurations that ignore the
// container hint.
func decodeCloudPayload(payload []byte) (audio.Clip, error) {
	if len(payload) >= 4 && bytes.Equal(payload[0:4], []byte("RIFF")) {
		return audio.DecodeWAV(payload)
	}

	return audio.DecodeMP3(payload)
}
