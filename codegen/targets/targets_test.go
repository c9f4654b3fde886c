package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kirgen/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		target string
		lang   string
		ext    string
	}{
		{"lua", "lua", "lua"},
		{"LUA", "lua", "lua"},
		{".lua", "lua", "lua"},
		{"python", "python", "py"},
		{"py", "python", "py"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			d, err := Lookup(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.lang, d.Language())
			assert.Equal(t, tt.ext, d.FileExtension())
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedTarget))
	assert.Contains(t, errors.FlattenHints(err), "lua, python")
}
