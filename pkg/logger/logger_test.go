package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "hello", limit: 10, want: "hello"},
		{name: "trimmed", in: "  hello  ", limit: 10, want: "hello"},
		{name: "truncated", in: "abcdefgh", limit: 3, want: "abc..."},
		{name: "multibyte", in: "résumé", limit: 2, want: "ré..."},
		{name: "zero limit", in: "abc", limit: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.in, tt.limit))
		})
	}
}

func TestTextFields(t *testing.T) {
	fields := TextFields("resume", "Experienced engineer", 5)
	require.Len(t, fields, 2)
	assert.Equal(t, zap.Int("resume_length", 20), fields[0])
	assert.Equal(t, zap.String("resume_preview", "Exper..."), fields[1])
}

func TestNewAndOrNop(t *testing.T) {
	l, err := New(true, true)
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.NotNil(t, OrNop(nil))
	assert.Same(t, l, OrNop(l))
}
