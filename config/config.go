package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type AgentConfig struct {
	ServerURL string `toml:"server_url"`
	DeviceID  string `toml:"device_id"`
}

type UserConfig struct {
	Agent      AgentConfig `toml:"agent"`
	APIKey     string      `toml:"api_key,omitempty"`
	QwenAPIKey string      `toml:"qwen_api_key,omitempty"`
	Theme      string      `toml:"theme"`
	UseQwen3   bool        `toml:"use_qwen3"`
}

// Config is the merged runtime configuration. It is loaded once at startup
// and mutated only through Apply.
type Config struct {
	DataDirectory string
	ServerURL     string
	DeviceID      string
	APIKey        string
	QwenAPIKey    string
	Theme         string
	UseQwen3      bool
}

// Patch is a partial configuration update. Nil fields are left unchanged.
type Patch struct {
	DeviceID   *string
	APIKey     *string
	QwenAPIKey *string
	Theme      *string
	UseQwen3   *bool
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Apply merges a partial update into the config in memory. Persisting the
// result is the caller's responsibility (see Save).
func (c *Config) Apply(p Patch) {
	if p.DeviceID != nil {
		c.DeviceID = *p.DeviceID
	}
	if p.APIKey != nil {
		c.APIKey = *p.APIKey
	}
	if p.QwenAPIKey != nil {
		c.QwenAPIKey = *p.QwenAPIKey
	}
	if p.Theme != nil {
		c.Theme = *p.Theme
	}
	if p.UseQwen3 != nil {
		c.UseQwen3 = *p.UseQwen3
	}
	c.normalize()
}

// normalize defaults fields a stored file may be missing.
func (c *Config) normalize() {
	if c.Theme != "dark" {
		c.Theme = "light"
	}
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("PHONE_AGENT_SERVER_URL"); url != "" {
		c.ServerURL = url
	}
	if dataDir := os.Getenv("PATUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PATUI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain instruction text and device ids
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (PATUI_DEBUG=%s) ===", os.Getenv("PATUI_DEBUG"))
}

// Load reads system and user configuration, falling back to defaults for a
// missing or malformed file. A corrupted settings file is logged and treated
// as absent rather than aborting startup.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: "~/.local/share/patui",
		ServerURL:     DefaultServerURL,
		DeviceID:      DefaultDeviceID,
		Theme:         "light",
	}

	systemCfg := LoadSystemConfig()
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg := LoadUserConfig(dataDir)
	if userCfg.Agent.ServerURL != "" {
		cfg.ServerURL = userCfg.Agent.ServerURL
	}
	if userCfg.Agent.DeviceID != "" {
		cfg.DeviceID = userCfg.Agent.DeviceID
	}
	cfg.APIKey = userCfg.APIKey
	cfg.QwenAPIKey = userCfg.QwenAPIKey
	cfg.Theme = userCfg.Theme
	cfg.UseQwen3 = userCfg.UseQwen3

	// Env wins over the stored file
	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg, nil
}

// Save persists the current user configuration to the data directory.
func (c *Config) Save() error {
	userCfg := &UserConfig{
		Agent: AgentConfig{
			ServerURL: c.ServerURL,
			DeviceID:  c.DeviceID,
		},
		APIKey:     c.APIKey,
		QwenAPIKey: c.QwenAPIKey,
		Theme:      c.Theme,
		UseQwen3:   c.UseQwen3,
	}
	return SaveUserConfig(userCfg, c.DataDir())
}
