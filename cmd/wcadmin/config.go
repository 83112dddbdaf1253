package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is wcadmin's on-disk configuration: the default log level/format,
// plus a DefaultWorkingCopy field that is parsed but read by no command
// (every command takes its path as a required argument). Config parsing
// lives entirely in this demonstration
// binary — the core itself takes an explicit wcdb.OpenOptions value and
// has no opinion on file formats (SPEC_FULL §1A).
type Config struct {
	DefaultWorkingCopy string `yaml:"default_working_copy"`
	LogLevel           string `yaml:"log_level"`
	LogJSON            bool   `yaml:"log_json"`
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg := Config{LogLevel: "info"}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
