// Package synth_test tests the fallback coordination across backends.
package synth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/core"
	"github.com/book-expert/audiobook-service/internal/synth"
	"github.com/book-expert/audiobook-service/internal/voice"
)

var errMockSynthesis = errors.New("mock synthesis failure")

// mockBackend fails a configurable number of times before succeeding.
type mockBackend struct {
	name       string
	shouldFail bool
	calls      int
}

func (m *mockBackend) Name() string {
	return m.name
}

func (m *mockBackend) Synthesize(
	_ context.Context,
	_ string,
	_ voice.Profile,
) (audio.Clip, error) {
	m.calls++

	if m.shouldFail {
		return audio.Clip{}, errMockSynthesis
	}

	return audio.NewClip(make([]int16, 100)), nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "test.log")
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log
}

func testBackends(systemFails, cloudFails bool) (map[synth.Method]synth.Backend, *mockBackend, *mockBackend, *mockBackend) {
	system := &mockBackend{name: "system", shouldFail: systemFails}
	cloud := &mockBackend{name: "cloud", shouldFail: cloudFails}
	tone := &mockBackend{name: "tone", shouldFail: false}

	backends := map[synth.Method]synth.Backend{
		synth.MethodSystem: system,
		synth.MethodCloud:  cloud,
		synth.MethodTone:   tone,
	}

	return backends, system, cloud, tone
}

func TestCoordinator_AutoUsesFirstWorkingBackend(t *testing.T) {
	t.Parallel()

	backends, system, cloud, tone := testBackends(false, false)
	coordinator := synth.NewCoordinator(backends, newTestLogger(t))
	profile := mustProfile(t, voice.BritishMale)

	result, err := coordinator.Synthesize(context.Background(), 0, "hello", profile, synth.MethodAuto)
	require.NoError(t, err)

	assert.Equal(t, "system", result.Backend)
	assert.Equal(t, 1, system.calls)
	assert.Equal(t, 0, cloud.calls)
	assert.Equal(t, 0, tone.calls)
	assert.Empty(t, result.Attempts)
}

func TestCoordinator_AutoFallsThroughToTone(t *testing.T) {
	t.Parallel()

	backends, system, cloud, tone := testBackends(true, true)
	coordinator := synth.NewCoordinator(backends, newTestLogger(t))
	profile := mustProfile(t, voice.AmericanFemale)

	result, err := coordinator.Synthesize(context.Background(), 3, "hello", profile, synth.MethodAuto)
	require.NoError(t, err)

	assert.Equal(t, "tone", result.Backend)
	assert.Equal(t, 1, system.calls)
	assert.Equal(t, 1, cloud.calls)
	assert.Equal(t, 1, tone.calls)

	require.Len(t, result.Attempts, 2)
	assert.Equal(t, "system", result.Attempts[0].Backend)
	assert.Equal(t, "cloud", result.Attempts[1].Backend)
}

func TestCoordinator_NamedMethodTriedFirst(t *testing.T) {
	t.Parallel()

	backends, system, cloud, _ := testBackends(false, false)
	coordinator := synth.NewCoordinator(backends, newTestLogger(t))
	profile := mustProfile(t, voice.BritishFemale)

	result, err := coordinator.Synthesize(context.Background(), 0, "hello", profile, synth.MethodCloud)
	require.NoError(t, err)

	assert.Equal(t, "cloud", result.Backend)
	assert.Equal(t, 1, cloud.calls)
	assert.Equal(t, 0, system.calls)
}

func TestCoordinator_NamedMethodFallsBack(t *testing.T) {
	t.Parallel()

	backends, system, cloud, _ := testBackends(false, true)
	coordinator := synth.NewCoordinator(backends, newTestLogger(t))
	profile := mustProfile(t, voice.AmericanMale)

	result, err := coordinator.Synthesize(context.Background(), 0, "hello", profile, synth.MethodCloud)
	require.NoError(t, err)

	assert.Equal(t, "system", result.Backend)
	assert.Equal(t, 1, cloud.calls)
	assert.Equal(t, 1, system.calls)
}

func TestCoordinator_AllBackendsFail(t *testing.T) {
	t.Parallel()

	failing := &mockBackend{name: "system", shouldFail: true}
	coordinator := synth.NewCoordinator(map[synth.Method]synth.Backend{
		synth.MethodSystem: failing,
	}, newTestLogger(t))
	profile := mustProfile(t, voice.BritishMale)

	_, err := coordinator.Synthesize(context.Background(), 0, "hello", profile, synth.MethodAuto)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBackendFailure)
	assert.ErrorIs(t, err, synth.ErrAllBackendsFailed)
}

func TestCoordinator_ContextCancellationAborts(t *testing.T) {
	t.Parallel()

	backends, system, _, tone := testBackends(true, true)
	coordinator := synth.NewCoordinator(backends, newTestLogger(t))
	profile := mustProfile(t, voice.BritishMale)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := coordinator.Synthesize(ctx, 0, "hello", profile, synth.MethodAuto)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, system.calls)
	assert.Equal(t, 0, tone.calls)
}

func TestCoordinator_ChainOrder(t *testing.T) {
	t.Parallel()

	backends, _, _, _ := testBackends(false, false)
	coordinator := synth.NewCoordinator(backends, newTestLogger(t))

	autoChain := coordinator.Chain(synth.MethodAuto)
	require.Len(t, autoChain, 3)
	assert.Equal(t, "system", autoChain[0].Name())
	assert.Equal(t, "cloud", autoChain[1].Name())
	assert.Equal(t, "tone", autoChain[2].Name())

	cloudChain := coordinator.Chain(synth.MethodCloud)
	require.Len(t, cloudChain, 3)
	assert.Equal(t, "cloud", cloudChain[0].Name())
	assert.Equal(t, "system", cloudChain[1].Name())
	assert.Equal(t, "tone", cloudChain[2].Name())
}
