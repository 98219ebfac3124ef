package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file.
// Flags given on the command line take precedence.
type Config struct {
	Port        int           `yaml:"port"`
	TLSPort     int           `yaml:"tlsPort"`
	IP          string        `yaml:"ip"`
	TLSCert     string        `yaml:"tlsCert"`
	TLSKey      string        `yaml:"tlsKey"`
	AssetsDB    string        `yaml:"assetsDb"`
	MetricsPort int           `yaml:"metricsPort"`
	TrustProxy  bool          `yaml:"trustProxy"`
	MaxDelay    time.Duration `yaml:"maxDelay"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}

// overrideWith copies the fields whose flag was set explicitly.
func (c *Config) overrideWith(flags Config, set map[string]bool) {
	if set["port"] {
		c.Port = flags.Port
	}
	if set["tls-port"] {
		c.TLSPort = flags.TLSPort
	}
	if set["ip"] {
		c.IP = flags.IP
	}
	if set["tls-cert"] {
		c.TLSCert = flags.TLSCert
	}
	if set["tls-key"] {
		c.TLSKey = flags.TLSKey
	}
	if set["assets-db"] {
		c.AssetsDB = flags.AssetsDB
	}
	if set["metrics-port"] {
		c.MetricsPort = flags.MetricsPort
	}
	if set["trust-proxy"] {
		c.TrustProxy = flags.TrustProxy
	}
	if set["max-delay"] {
		c.MaxDelay = flags.MaxDelay
	}
}

// withDefaults fills in what neither the file nor the flags specified.
func (c Config) withDefaults(defaults Config) Config {
	if c.Port == 0 {
		c.Port = defaults.Port
	}
	if c.IP == "" {
		c.IP = defaults.IP
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = defaults.MaxDelay
	}
	return c
}
