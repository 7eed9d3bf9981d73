package utils

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxBytesReader_ExactLimitPasses(t *testing.T) {
	data, err := io.ReadAll(MaxBytesReader(strings.NewReader("abcdef"), 6))
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(data))
}

func TestMaxBytesReader_OversizedFails(t *testing.T) {
	_, err := io.ReadAll(MaxBytesReader(strings.NewReader("abcdefg"), 6))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputTooLarge))
}

func TestMaxBytesReader_NoSilentTruncationAtBoundary(t *testing.T) {
	// The failure mode an io.LimitReader has: the limit lands exactly on
	// a line boundary and the consumer sees a clean prefix. Here the
	// overflow must surface as an error instead.
	input := "line one\nline two\nline three\n"
	limit := int64(len("line one\nline two\n"))

	_, err := io.ReadAll(MaxBytesReader(strings.NewReader(input), limit))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputTooLarge))
}
