package vacmap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration file.
type Config struct {
	API      APIConfig         `yaml:"api"`
	DeviceID string            `yaml:"deviceId"`
	Colors   map[string]string `yaml:"colors,omitempty"`
	Settings SettingsConfig    `yaml:"settings,omitempty"`
	MQTT     MQTTConfig        `yaml:"mqtt,omitempty"`
}

// APIConfig holds the cloud API credentials.
type APIConfig struct {
	Server    string `yaml:"server"`
	ClientID  string `yaml:"clientId"`
	SecretKey string `yaml:"secretKey"`
}

// SettingsConfig mirrors RenderSettings in the config file. All fields are
// optional and default to off.
type SettingsConfig struct {
	Rotate         int  `yaml:"rotate,omitempty"`
	FlipVertical   bool `yaml:"flipVertical,omitempty"`
	FlipHorizontal bool `yaml:"flipHorizontal,omitempty"`
	PathEnabled    bool `yaml:"pathEnabled,omitempty"`
	RoomLabels     bool `yaml:"roomLabels,omitempty"`
}

// MQTTConfig holds MQTT connection settings for the map publisher.
type MQTTConfig struct {
	Broker        string `yaml:"broker,omitempty"`
	ClientID      string `yaml:"clientId,omitempty"`
	Username      string `yaml:"username,omitempty"`
	Password      string `yaml:"password,omitempty"`
	PublishPrefix string `yaml:"publishPrefix,omitempty"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if config.API.Server == "" {
		return nil, fmt.Errorf("api.server is required")
	}
	if config.API.ClientID == "" {
		return nil, fmt.Errorf("api.clientId is required")
	}
	if config.API.SecretKey == "" {
		return nil, fmt.Errorf("api.secretKey is required")
	}
	if config.DeviceID == "" {
		return nil, fmt.Errorf("deviceId is required")
	}

	return &config, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// RenderSettings builds a fresh settings value from the config. A new value
// is constructed per call so callers can never share mutable defaults.
func (c *Config) RenderSettings() RenderSettings {
	return RenderSettings{
		Rotate:         c.Settings.Rotate,
		FlipVertical:   c.Settings.FlipVertical,
		FlipHorizontal: c.Settings.FlipHorizontal,
		PathEnabled:    c.Settings.PathEnabled,
		RoomLabels:     c.Settings.RoomLabels,
	}
}

// Palette builds a fresh color palette from the config's colors map.
func (c *Config) Palette() ColorPalette {
	return NewPalette(c.Colors)
}
