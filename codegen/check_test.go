package codegen

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type headerDialect struct {
	Dialect
}

func (headerDialect) FileExtension() string { return "lua" }
func (headerDialect) Header() []string {
	return []string{"-- Generated from .kir by Kryon Code Generator"}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestCompareOutputs(t *testing.T) {
	fs := afero.NewMemMapFs()

	writeFile(t, fs, "gen/main.lua", "-- Generated from .kir by Kryon Code Generator\nreturn root\n")
	writeFile(t, fs, "out/main.lua", "return root\n")

	writeFile(t, fs, "gen/components/card.lua", "return { Card = Card }\n")
	writeFile(t, fs, "out/components/card.lua", "return {}\n")

	writeFile(t, fs, "gen/lib.lua", "return {}\n")
	writeFile(t, fs, "gen/notes.txt", "ignored\n")

	result, err := CompareOutputs(fs, headerDialect{}, "gen", "out")
	require.NoError(t, err)

	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{"components/card.lua"}, result.Differences)
	assert.Equal(t, []string{"lib.lua"}, result.Missing)
}

func TestCompareOutputs_UpToDate(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "gen/main.lua", "return root\n")
	writeFile(t, fs, "out/main.lua", "return root\n")

	result, err := CompareOutputs(fs, headerDialect{}, "gen", "out")
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
}

func TestCompareOutputs_MissingGeneratedDir(t *testing.T) {
	_, err := CompareOutputs(afero.NewMemMapFs(), headerDialect{}, "nope", "out")
	assert.Error(t, err)
}
