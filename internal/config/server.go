package config

import "os"

type ServerConfig struct {
	// BindHost is the listen host; empty binds all interfaces
	BindHost string
	// StatusAddr enables the HTTP status endpoint when set
	StatusAddr string
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		BindHost:   os.Getenv("BIND_HOST"),
		StatusAddr: os.Getenv("STATUS_ADDR"),
	}
}
