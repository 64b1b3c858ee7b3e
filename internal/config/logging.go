package config

import "os"

type LogConfig struct {
	Level  string
	Output string
}

func NewLogConfig() *LogConfig {
	cfg := &LogConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Output: os.Getenv("LOG_OUTPUT"),
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
	return cfg
}
