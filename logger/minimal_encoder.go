package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the colors a theme assigns to each part of a log line
type palette struct {
	fg     string
	time   string
	name   string
	module string
	number string
	key    string
	warn   string
	warnBg string
	err    string
	errBg  string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:     "\x1b[38;5;223m",
	time:   "\x1b[38;5;108m",
	name:   "\x1b[38;5;208m",
	module: "\x1b[38;5;109m",
	number: "\x1b[38;5;175m",
	key:    "\x1b[38;5;246m",
	warn:   "\x1b[38;5;214m",
	warnBg: "\x1b[48;5;58m",
	err:    "\x1b[38;5;167m",
	errBg:  "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:     "\x1b[38;5;223m",
	time:   "\x1b[38;5;107m",
	name:   "\x1b[38;5;108m",
	module: "\x1b[38;5;109m",
	number: "\x1b[38;5;108m",
	key:    "\x1b[38;5;65m",
	warn:   "\x1b[38;5;179m",
	warnBg: "\x1b[48;5;58m",
	err:    "\x1b[38;5;167m",
	errBg:  "\x1b[48;5;52m",
}

// Current active theme (set from config or KIRGEN_LOG_THEME)
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  orchestrator  module generated  components/card  file=out/components/card.lua"
//
// Fields attached with Logger.With land in the embedded map encoder and are
// printed alongside per-entry fields.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if lvl := levelColorString(ent.Level); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.name)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	m := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		m.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(m)
	}
	if rendered := renderFields(m.Fields); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for levels other than INFO
func levelColorString(level zapcore.Level) string {
	c := colors()
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return c.key + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// renderFields prints every field. The module id is shown bare and first,
// durations get a unit, everything else is key=value in key order.
func renderFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	c := colors()

	var parts []string
	if mod, ok := fields[FieldModule]; ok {
		parts = append(parts, c.module+fmt.Sprint(mod)+colorReset)
	}
	if dur, ok := fields[FieldDurationMS]; ok {
		parts = append(parts, c.number+fmt.Sprint(dur)+colorReset+"ms")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == FieldModule || k == FieldDurationMS {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		parts = append(parts, c.key+k+"="+colorReset+formatValue(fields[k]))
	}
	return strings.Join(parts, " ")
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = fmt.Sprint(item)
		}
		return "[" + strings.Join(items, ",") + "]"
	default:
		return fmt.Sprint(val)
	}
}
