package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ServerConfig defines the synthesis server endpoint
type ServerConfig struct {
	Addr        string `json:"addr,omitempty"`
	SynthDefDir string `json:"synthDefDir,omitempty"`
}

// MidiConfig stores MIDI input preferences
type MidiConfig struct {
	NoteInputPort string `json:"noteInputPort,omitempty"`
	ChannelFilter int    `json:"channelFilter,omitempty"` // 0 = all channels, 1-16 otherwise
}

// UIConfig stores session preferences
type UIConfig struct {
	LastTempo   float64 `json:"lastTempo,omitempty"`
	LastProject string  `json:"lastProject,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Server ServerConfig `json:"server,omitempty"`
	Midi   MidiConfig   `json:"midi,omitempty"`
	UI     UIConfig     `json:"ui,omitempty"`
}

// DefaultServerAddr is where a locally started scsynth listens
const DefaultServerAddr = "127.0.0.1:57110"

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		UI: UIConfig{
			LastTempo: 120,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-scseq"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Environment variables override whatever the file says.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SCSEQ_SERVER_ADDR", c.Server.Addr)
	c.Server.SynthDefDir = getEnv("SCSEQ_SYNTHDEF_DIR", c.Server.SynthDefDir)
	c.Midi.NoteInputPort = getEnv("SCSEQ_MIDI_INPUT", c.Midi.NoteInputPort)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
