package config

const (
	// DefaultServerURL is the phone agent control server address. Override
	// with PHONE_AGENT_SERVER_URL or the agent.server_url setting.
	DefaultServerURL = "http://127.0.0.1:8001"

	// DefaultDeviceID matches the id assigned by the ZeroTier bridge setup.
	DefaultDeviceID = "zerotier-device-id"
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/patui",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Agent: AgentConfig{
			ServerURL: DefaultServerURL,
			DeviceID:  DefaultDeviceID,
		},
		Theme:    "light",
		UseQwen3: false,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# PATUI System Configuration
# Location: ~/.config/patui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where chats and user config are stored
data_directory = "~/.local/share/patui"
`
}

func GenerateUserConfigTemplate() string {
	return `# PATUI User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[agent]
# Phone agent control server URL
server_url = "http://127.0.0.1:8001"

# Target ADB device id (e.g. "10.173.181.1:5555" or "emulator-5554")
device_id = "zerotier-device-id"

# API key for the agent backend (optional)
api_key = ""

# Qwen API key, used for model-backed chat titles when use_qwen3 is on
qwen_api_key = ""

# UI theme: "light" or "dark"
theme = "light"

# Use the Qwen3 summarizer for chat titles
use_qwen3 = false
`
}
