package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every application setting.
type Config struct {
	Printer struct {
		IPAddress  string `yaml:"ip_address"`
		AccessCode string `yaml:"access_code"`
		Serial     string `yaml:"serial"`
		CameraPort int    `yaml:"camera_port"`
		Username   string `yaml:"username"`
	} `yaml:"printer"`

	Web struct {
		BindAddress string `yaml:"bind_address"`
		Port        int    `yaml:"port"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
	} `yaml:"web"`
}

// DefaultConfig returns the stock settings.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Printer.CameraPort = 6000
	cfg.Printer.Username = "bblp"
	cfg.Web.BindAddress = "0.0.0.0"
	cfg.Web.Port = 8080
	return cfg
}

// Load reads the config file. A missing file is created with defaults.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			err = cfg.Save(filename)
			return cfg, err
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the current settings back to the file.
func (cfg *Config) Save(filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
