package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/periodsearch/internal/config"
	"github.com/Paintersrp/periodsearch/internal/state"
)

func TestChangeEditor(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	path := config.GetConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("vaultdir: /vault\neditor: nvim\n"), 0o644))

	cfg, err := config.Load(home)
	require.NoError(t, err)
	s, err := state.FromConfig(cfg, home, state.Options{LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	cmd := NewCmdChangeEditor(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"obsidian"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "set to obsidian")

	reloaded, err := config.Load(home)
	require.NoError(t, err)
	ws, err := reloaded.ActiveWorkspace()
	require.NoError(t, err)
	assert.Equal(t, "obsidian", ws.Editor)
	assert.Equal(t, "obsidian", viper.GetString("editor"))

	cmd.SetArgs([]string{"emacs"})
	assert.Error(t, cmd.Execute())
}
