package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The console encoder must never drop a field, whatever its key.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "orchestrator",
		Message:    "module generated",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldModule, "components/card"), "components/card"},
		{zap.Int64(FieldDurationMS, 12), "12ms"},
		{zap.String(FieldFile, "out/components/card.lua"), "file=out/components/card.lua"},
		{zap.String(FieldTarget, "lua"), "target=lua"},
		{zap.Int(FieldCount, 3), "count=3"},
		{zap.Bool("preserved", true), "preserved=true"},
		{zap.Float64("opacity", 0.8), "opacity=0.8"},
		{zap.Strings("imports", []string{"a", "b"}), "imports=[a,b]"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(nil), ""},
	}

	var all []zapcore.Field
	for _, tf := range testFields {
		all = append(all, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, all)
	require.NoError(t, err)

	clean := stripANSI(buf.String())
	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, clean, tf.mustFind)
		}
	}
	assert.Contains(t, clean, "orchestrator")
	assert.Contains(t, clean, "module generated")
}

func TestMinimalEncoderLevels(t *testing.T) {
	encoder := newMinimalEncoder()

	tests := []struct {
		level zapcore.Level
		want  string
	}{
		{zapcore.WarnLevel, "WARN"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DebugLevel, "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			buf, err := encoder.EncodeEntry(zapcore.Entry{Level: tt.level, Time: time.Now(), Message: "m"}, nil)
			require.NoError(t, err)
			assert.Contains(t, stripANSI(buf.String()), tt.want)
		})
	}

	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "m"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, stripANSI(buf.String()), "INFO")
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	assert.Equal(t, gruvbox, colors())

	SetTheme("solarized")
	assert.Equal(t, gruvbox, colors(), "unknown themes are ignored")

	SetTheme("everforest")
	assert.Equal(t, everforest, colors())
}
