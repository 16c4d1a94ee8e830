package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

const (
	levelDebug level = "debug"
	levelInfo  level = "info"
	levelWarn  level = "warn"
)

func newLevels() *Normalizer[level] {
	return NewNormalizer(map[string]level{
		"debug":   levelDebug,
		"info":    levelInfo,
		"warn":    levelWarn,
		"warning": levelWarn,
	}, levelInfo)
}

func TestNormalize(t *testing.T) {
	n := newLevels()

	tests := []struct {
		input    string
		expected level
	}{
		{"debug", levelDebug},
		{"DEBUG", levelDebug},
		{"  warning ", levelWarn},
		{"verbose", levelInfo},
		{"", levelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	n := newLevels()

	v, err := n.Parse("Warn")
	require.NoError(t, err)
	assert.Equal(t, levelWarn, v)

	v, err = n.Parse("  ")
	require.NoError(t, err)
	assert.Equal(t, levelInfo, v)

	_, err = n.Parse("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debug, info, warn, warning")
}

func TestKeysIsACopy(t *testing.T) {
	n := newLevels()
	keys := n.Keys()
	keys[0] = "mutated"
	assert.Equal(t, "debug", n.Keys()[0])
}
