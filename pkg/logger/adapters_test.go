package logger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	lines []string
}

func (r *recorder) add(level string, message interface{}) {
	r.lines = append(r.lines, fmt.Sprintf("%s %v", level, message))
}

func (r *recorder) Debug(message interface{}, _ ...interface{}) { r.add("debug", message) }
func (r *recorder) Info(message string, _ ...interface{})       { r.add("info", message) }
func (r *recorder) Warn(message string, _ ...interface{})       { r.add("warn", message) }
func (r *recorder) Error(message interface{}, _ ...interface{}) { r.add("error", message) }
func (r *recorder) Fatal(message interface{}, _ ...interface{}) { r.add("fatal", message) }

func TestWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level Level
		input string
		want  []string
	}{
		{name: "info", level: LevelInfo, input: "listening\n", want: []string{"info listening"}},
		{name: "warn", level: LevelWarn, input: "tls: bad handshake\r\n", want: []string{"warn tls: bad handshake"}},
		{name: "error", level: LevelError, input: "panic recovered", want: []string{"error panic recovered"}},
		{name: "blank line dropped", level: LevelInfo, input: "\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := &recorder{}

			n, err := NewWriter(r, tc.level).Write([]byte(tc.input))

			assert.NoError(t, err)
			assert.Equal(t, len(tc.input), n)
			assert.Equal(t, tc.want, r.lines)
		})
	}
}

func TestStdLogger(t *testing.T) {
	t.Parallel()

	r := &recorder{}

	StdLogger(r, LevelWarn).Printf("http: TLS handshake error from %s", "192.0.2.1:5000")

	assert.Equal(t, []string{"warn http: TLS handshake error from 192.0.2.1:5000"}, r.lines)
}
