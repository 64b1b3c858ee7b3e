package config

import "os"

type AppConfig struct {
	DebugMode    bool
	LogConfig    *LogConfig
	ServerConfig *ServerConfig
	ClientConfig *ClientConfig
}

func NewSystemConfig() *AppConfig {
	cfg := &AppConfig{
		DebugMode:    os.Getenv("DEBUG_MODE") == "true",
		LogConfig:    NewLogConfig(),
		ServerConfig: NewServerConfig(),
		ClientConfig: NewClientConfig(),
	}
	// Debug mode wins over LOG_LEVEL
	if cfg.DebugMode {
		cfg.LogConfig.Level = "debug"
	}
	return cfg
}
