// Package synth_test tests method parsing.
package synth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/audiobook-service/internal/core"
	"github.com/book-expert/audiobook-service/internal/synth"
)

func TestParseMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  synth.Method
	}{
		{"", synth.MethodAuto},
		{"auto", synth.MethodAuto},
		{"system", synth.MethodSystem},
		{"cloud", synth.MethodCloud},
		{"tone", synth.MethodTone},
		{"basictone", synth.MethodBasicTone},
		{"  Auto  ", synth.MethodAuto},
	}

	for _, testCase := range tests {
		method, err := synth.ParseMethod(testCase.input)
		require.NoError(t, err)
		assert.Equal(t, testCase.want, method)
	}
}

func TestParseMethod_Unknown(t *testing.T) {
	t.Parallel()

	_, err := synth.ParseMethod("telepathy")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
}
