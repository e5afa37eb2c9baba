// Package config loads the confl formatted configuration of the tocc driver.
package config

import (
	"os"

	"github.com/lytics/confl"
)

// Config for the tocc driver: external tools and rendering defaults.
type Config struct {
	CC        string   `json:"cc"`         // C compiler, "gcc"
	CCFlags   []string `json:"cc_flags"`   // extra compiler flags
	Dot       string   `json:"dot"`        // graphviz binary, "dot"
	DotFormat string   `json:"dot_format"` // -T format passed to dot, "png"
	LogLevel  string   `json:"log_level"`  // [debug,info,warn,error]
	PNGWidth  int      `json:"png_width"`  // native renderer size
	PNGHeight int      `json:"png_height"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		CC:        "gcc",
		Dot:       "dot",
		DotFormat: "png",
		LogLevel:  "info",
		PNGWidth:  800,
		PNGHeight: 600,
	}
}

// LoadConfigFromFile reads a confl formatted config file from disk.
// Environment variables in the file are expanded.
func LoadConfigFromFile(filename string) (*Config, error) {
	confBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return LoadConfig(string(confBytes))
}

// LoadConfig loads a confl formatted config from a string. Keys that are
// not set keep their Default value.
func LoadConfig(conf string) (*Config, error) {
	c := Default()
	if _, err := confl.Decode(os.ExpandEnv(conf), c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads filename if it exists and falls back to Default otherwise.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	c, err := LoadConfigFromFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return c, err
}
