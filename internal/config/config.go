package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the client configuration.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Local    LocalConfig    `yaml:"local"`
	Realtime RealtimeConfig `yaml:"realtime"`
}

// BackendConfig holds the SkillSwap backend endpoints.
type BackendConfig struct {
	// APIBaseURL is the REST base, e.g. "https://skillswap.example.com/api".
	APIBaseURL string `yaml:"api_base_url"`
	// WebSocketURL is the raw websocket path of the STOMP endpoint,
	// e.g. "wss://skillswap.example.com/ws/websocket".
	WebSocketURL string `yaml:"websocket_url"`
}

// LocalConfig holds settings for the local daemon.
type LocalConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	DataDir    string `yaml:"data_dir"`
}

// RealtimeConfig holds realtime transport settings.
type RealtimeConfig struct {
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	HeartBeat      time.Duration `yaml:"heart_beat"`
}

// Load reads and parses a YAML config file. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			APIBaseURL:   "http://localhost:8080/api",
			WebSocketURL: "ws://localhost:8080/ws/websocket",
		},
		Local: LocalConfig{
			ListenAddr: "127.0.0.1:7332",
			DataDir:    "./data",
		},
		Realtime: RealtimeConfig{
			ReconnectDelay: 5 * time.Second,
			HeartBeat:      30 * time.Second,
		},
	}
}
