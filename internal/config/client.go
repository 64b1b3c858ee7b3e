package config

import (
	"time"

	"gitlab.com/jobfeed.net/internal/tcp/defs"
)

type ClientConfig struct {
	ConsumerBuffer      int
	ConsumerStopTimeout time.Duration
	DialTimeout         time.Duration
}

func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		ConsumerBuffer:      intEnv("CONSUMER_BUFFER", defs.DefaultConsumerBuffer),
		ConsumerStopTimeout: secondsEnv("CONSUMER_STOP_TIMEOUT_SEC", defs.DefaultConsumerStopTimeout),
		DialTimeout:         secondsEnv("DIAL_TIMEOUT_SEC", defs.DefaultDialTimeout),
	}
}
