package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segpool/internal/sizes"
)

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantSegment int
		wantGrowth  int
	}{
		{
			name:        "defaults",
			args:        nil,
			wantSegment: 64,
			wantGrowth:  64,
		},
		{
			name:        "segment size rounded to word",
			args:        []string{"--segment-size", "20"},
			wantSegment: sizes.AlignWord(20),
			wantGrowth:  64,
		},
		{
			name:        "segment size below one word",
			args:        []string{"--segment-size", "1"},
			wantSegment: sizes.Word,
			wantGrowth:  64,
		},
		{
			name:        "zero growth becomes one",
			args:        []string{"--growth", "0"},
			wantSegment: 64,
			wantGrowth:  1,
		},
		{
			name:        "explicit growth",
			args:        []string{"--segment-size", "4096", "--growth", "16"},
			wantSegment: 4096,
			wantGrowth:  16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"info", "--json"}, tt.args...)
			stdout, _, err := runCLI(t, args...)
			require.NoError(t, err)

			l := decodeJSON[layout](t, stdout)
			assert.Equal(t, sizes.Word, l.WordSize)
			assert.Equal(t, tt.wantSegment, l.SegmentSize)
			assert.Equal(t, tt.wantGrowth, l.Growth)
			assert.Equal(t, sizes.Word+tt.wantGrowth*tt.wantSegment, l.PageBytes)
			assert.Equal(t, l.PageBytes-sizes.Word, l.PayloadBytes)
			assert.InDelta(t, float64(l.PayloadBytes)/float64(l.PageBytes), l.Efficiency, 1e-9)
		})
	}
}

func TestInfoCommand_Text(t *testing.T) {
	stdout, _, err := runCLI(t, "info", "--segment-size", "20", "--growth", "2")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Pool Layout:")
	assert.Contains(t, stdout, "Growth:         2 segments")
	if sizes.AlignWord(20) != 20 {
		assert.Contains(t, stdout, "(requested 20)")
	}
	assert.NotContains(t, stdout, "Page header:")
}

func TestInfoCommand_VerboseShowsHeader(t *testing.T) {
	stdout, _, err := runCLI(t, "info", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Page header:")
}

func TestInfoCommand_Environment(t *testing.T) {
	t.Setenv("SEGPOOL_SEGMENT_SIZE", "40")
	t.Setenv("SEGPOOL_GROWTH", "5")

	stdout, _, err := runCLI(t, "info", "--json")
	require.NoError(t, err)
	l := decodeJSON[layout](t, stdout)
	assert.Equal(t, 40, l.SegmentSize)
	assert.Equal(t, 5, l.Growth)
}

func TestInfoCommand_FlagBeatsEnvironment(t *testing.T) {
	t.Setenv("SEGPOOL_SEGMENT_SIZE", "40")

	stdout, _, err := runCLI(t, "info", "--json", "--segment-size", "48")
	require.NoError(t, err)
	assert.Equal(t, 48, decodeJSON[layout](t, stdout).SegmentSize)
}

func TestInfoCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segpool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segment-size: 48\ngrowth: 8\njson: true\n"), 0o600))

	stdout, _, err := runCLI(t, "info", "--config", path)
	require.NoError(t, err)

	l := decodeJSON[layout](t, stdout)
	assert.Equal(t, 48, l.SegmentSize)
	assert.Equal(t, 8, l.Growth)
}

func TestInfoCommand_MissingConfigFile(t *testing.T) {
	_, _, err := runCLI(t, "info", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestInfoCommand_RejectsArgs(t *testing.T) {
	_, _, err := runCLI(t, "info", "extra")
	require.Error(t, err)
}

func TestRootCommand_BadLogLevel(t *testing.T) {
	_, _, err := runCLI(t, "info", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "segpool "+version)
	assert.Contains(t, stdout, "commit: "+commit)
}
