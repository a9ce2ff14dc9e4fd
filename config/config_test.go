package config

import (
	"os"
	"path/filepath"
	"testing"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestApplyPatch(t *testing.T) {
	tests := []struct {
		name  string
		base  Config
		patch Patch
		want  Config
	}{
		{
			name:  "device id only",
			base:  Config{DeviceID: "old", Theme: "light", ServerURL: DefaultServerURL},
			patch: Patch{DeviceID: strptr("emulator-5554")},
			want:  Config{DeviceID: "emulator-5554", Theme: "light", ServerURL: DefaultServerURL},
		},
		{
			name:  "theme toggle",
			base:  Config{DeviceID: "d", Theme: "light", ServerURL: DefaultServerURL},
			patch: Patch{Theme: strptr("dark")},
			want:  Config{DeviceID: "d", Theme: "dark", ServerURL: DefaultServerURL},
		},
		{
			name:  "unknown theme falls back to light",
			base:  Config{Theme: "dark", ServerURL: DefaultServerURL},
			patch: Patch{Theme: strptr("solarized")},
			want:  Config{Theme: "light", ServerURL: DefaultServerURL},
		},
		{
			name:  "qwen flag and key",
			base:  Config{Theme: "light", ServerURL: DefaultServerURL},
			patch: Patch{UseQwen3: boolptr(true), QwenAPIKey: strptr("sk-test")},
			want:  Config{Theme: "light", ServerURL: DefaultServerURL, UseQwen3: true, QwenAPIKey: "sk-test"},
		},
		{
			name:  "empty patch changes nothing",
			base:  Config{DeviceID: "d", APIKey: "k", Theme: "dark", ServerURL: DefaultServerURL},
			patch: Patch{},
			want:  Config{DeviceID: "d", APIKey: "k", Theme: "dark", ServerURL: DefaultServerURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.base
			cfg.Apply(tt.patch)
			if cfg != tt.want {
				t.Errorf("Apply() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestLoadUserConfigDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg := LoadUserConfig(dataDir)
	if cfg.Theme != "light" {
		t.Errorf("default theme = %q, want light", cfg.Theme)
	}
	if cfg.Agent.ServerURL != DefaultServerURL {
		t.Errorf("default server url = %q, want %q", cfg.Agent.ServerURL, DefaultServerURL)
	}

	// Loading a fresh data dir should have created the template file
	if !FileExists(filepath.Join(dataDir, "config.toml")) {
		t.Error("expected default config.toml to be created")
	}
}

func TestLoadUserConfigMalformed(t *testing.T) {
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := LoadUserConfig(dataDir)
	if cfg == nil {
		t.Fatal("expected defaults, got nil")
	}
	if cfg.Theme != "light" || cfg.Agent.DeviceID != DefaultDeviceID {
		t.Errorf("malformed config should fall back to defaults, got %+v", cfg)
	}
}

func TestSaveUserConfigRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	in := &UserConfig{
		Agent: AgentConfig{
			ServerURL: "http://10.0.0.2:8001",
			DeviceID:  "10.173.181.1:5555",
		},
		APIKey:     "key-a",
		QwenAPIKey: "key-q",
		Theme:      "dark",
		UseQwen3:   true,
	}
	if err := SaveUserConfig(in, dataDir); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}

	out := LoadUserConfig(dataDir)
	if *out != *in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}
