// Package config provides configuration management for the bridge.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Config is the application configuration.
type Config struct {
	// Listen holds the UDP transport settings.
	Listen ListenConfig `json:"listen"`

	// Smoothing selects and tunes the pointer motion policy.
	Smoothing SmoothingConfig `json:"smoothing"`

	// Input holds actuator-facing settings.
	Input InputConfig `json:"input"`

	// Session holds liveness tracking settings.
	Session SessionConfig `json:"session"`

	// API holds the status/metrics HTTP server settings.
	API APIConfig `json:"api"`

	// Log holds log file settings.
	Log LogConfig `json:"log"`
}

// ListenConfig configures the UDP transport.
type ListenConfig struct {
	// Addr is the UDP listen address (default "0.0.0.0:9001").
	Addr string `json:"addr"`

	// ReadBufferBytes sizes the socket read buffer for burst receives.
	ReadBufferBytes int `json:"read_buffer_bytes"`
}

// SmoothingConfig selects the motion smoothing policy.
type SmoothingConfig struct {
	// Policy is "stability", "simple" or "momentum".
	Policy string `json:"policy"`

	// Sensitivity overrides the preset's pixel scaling when non-zero.
	Sensitivity float64 `json:"sensitivity,omitempty"`

	// MaxSpeed overrides the preset's per-axis pixel clamp when non-zero.
	MaxSpeed float64 `json:"max_speed,omitempty"`

	// DeltaGain overrides the preset's raw-delta pixel gain when non-zero.
	DeltaGain float64 `json:"delta_gain,omitempty"`
}

// InputConfig configures actuator behavior.
type InputConfig struct {
	// AutoReleaseMs is the delay before a momentary button press is
	// released automatically.
	AutoReleaseMs int `json:"auto_release_ms"`

	// StickDeadzone zeroes stick input when both axes are closer to
	// center than this.
	StickDeadzone float64 `json:"stick_deadzone"`

	// StickCurve applies a response curve (v*|v|) for finer control near
	// center.
	StickCurve bool `json:"stick_curve"`

	// TypeFallback types unrecognized bare tokens as literal keys.
	TypeFallback bool `json:"type_fallback"`

	// DryRun discards all actuator output (useful with the event feed).
	DryRun bool `json:"dry_run"`
}

// SessionConfig configures session liveness tracking.
type SessionConfig struct {
	// TimeoutSec evicts sessions silent for this long.
	TimeoutSec int `json:"timeout_sec"`

	// SweepSec is the eviction sweep period.
	SweepSec int `json:"sweep_sec"`
}

// APIConfig configures the status HTTP server.
type APIConfig struct {
	// Enabled starts the HTTP API server.
	Enabled bool `json:"enabled"`

	// Port is the HTTP listen port (default 8080).
	Port int `json:"port"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	// File is the log file path.
	File string `json:"file"`

	// MaxSizeMB rotates the file beyond this size.
	MaxSizeMB int `json:"max_size_mb"`

	// MaxBackups keeps at most this many rotated files.
	MaxBackups int `json:"max_backups"`

	// MaxAgeDays prunes rotated files older than this.
	MaxAgeDays int `json:"max_age_days"`
}

// DefaultConfig returns a new Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Listen: ListenConfig{
			Addr:            "0.0.0.0:9001",
			ReadBufferBytes: 1 << 20,
		},
		Smoothing: SmoothingConfig{
			Policy: "stability",
		},
		Input: InputConfig{
			AutoReleaseMs: 100,
			StickDeadzone: 0.05,
			TypeFallback:  true,
		},
		Session: SessionConfig{
			TimeoutSec: 30,
			SweepSec:   10,
		},
		API: APIConfig{
			Enabled: true,
			Port:    8080,
		},
		Log: LogConfig{
			File:       "padbridge.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Manager loads, saves and hands out the configuration.
type Manager struct {
	mu         sync.RWMutex
	config     Config
	configPath string
}

// NewManager creates a config manager. An empty path selects the default
// location under the user config directory.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		configDir := filepath.Join(dir, "padbridge")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(configDir, "config.json")
	}
	return &Manager{
		config:     DefaultConfig(),
		configPath: path,
	}, nil
}

// Load reads the configuration from disk. A missing file keeps the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &m.config)
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.config, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Set replaces the configuration.
func (m *Manager) Set(config Config) {
	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
}
