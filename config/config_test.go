package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SCSEQ_SERVER_ADDR", "")
	t.Setenv("SCSEQ_SYNTHDEF_DIR", "")
	t.Setenv("SCSEQ_MIDI_INPUT", "")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, 120.0, cfg.UI.LastTempo)
	assert.Empty(t, cfg.Midi.NoteInputPort)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.Server.Addr = "10.0.0.5:57111"
	cfg.Server.SynthDefDir = "/opt/synthdefs"
	cfg.Midi.NoteInputPort = "Arturia KeyStep"
	cfg.Midi.ChannelFilter = 10
	cfg.UI.LastTempo = 98.5
	cfg.UI.LastProject = "demo"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("SCSEQ_SERVER_ADDR", "192.168.1.20:57110")
	t.Setenv("SCSEQ_MIDI_INPUT", "MPK Mini")

	cfg := DefaultConfig()
	cfg.Server.Addr = "10.0.0.5:57111"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20:57110", loaded.Server.Addr)
	assert.Equal(t, "MPK Mini", loaded.Midi.NoteInputPort)
}

func TestLoadTolerantOfMissingFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cfg := &Config{}
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerAddr, loaded.Server.Addr)
}
