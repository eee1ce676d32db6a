package configpaths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG only applies to unix")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "joymouse"), dir)
}

func TestDefaultConfigDirHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("HOME only applies to unix")
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/pat")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/pat", ".config", "joymouse"), dir)
}

func TestConfigCandidatePathsUserFirst(t *testing.T) {
	tests := []struct {
		user string
		want string
	}{
		{"mine.yml", "yaml"},
		{"mine.yaml", "yaml"},
		{"mine.toml", "toml"},
		{"mine.json", "json"},
		{"mine.conf", "json"},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			j, y, tm := ConfigCandidatePaths(tt.user)
			got := map[string][]string{"json": j, "yaml": y, "toml": tm}[tt.want]
			require.NotEmpty(t, got)
			assert.Equal(t, tt.user, got[0])
		})
	}
}

func TestConfigCandidatePathsIncludesSystemDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no system dir on windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	j, y, tm := ConfigCandidatePaths("")
	assert.Contains(t, j, filepath.Join(SystemDir, "config.json"))
	assert.Contains(t, y, filepath.Join(SystemDir, "run.yml"))
	assert.Contains(t, tm, filepath.Join("/tmp/xdg", "joymouse", "run.toml"))
}

func TestExt(t *testing.T) {
	assert.Equal(t, "yaml", Ext("yml"))
	assert.Equal(t, "toml", Ext("toml"))
	assert.Equal(t, "json", Ext("json"))
	assert.Equal(t, "json", Ext(""))
}
