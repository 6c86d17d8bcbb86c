package main

import (
	"fmt"
	"time"
)

type Config struct {
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=0.0.0.0"`
	HTTPPort             int           `env:"HTTP_PORT,default=8080"`
	GRPCPort             int           `env:"GRPC_PORT,default=9090"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BufferSize           int           `env:"BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	RoomInboxSize        int           `env:"ROOM_INBOX_SIZE,default=64"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=100ms"`
	RoomIdleTimeout      time.Duration `env:"ROOM_IDLE_TIMEOUT,default=5m"`
	HealthInterval       time.Duration `env:"HEALTH_INTERVAL,default=30s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	SwipeCounting        string        `env:"SWIPE_COUNTING,default=all"`
	SummaryBaseURL       string        `env:"SUMMARY_BASE_URL,default=https://api.openai.com/v1"`
	SummaryModel         string        `env:"SUMMARY_MODEL,default=gpt-4o-mini"`
	SummaryTimeout       time.Duration `env:"SUMMARY_TIMEOUT,default=30s"`
	SummaryMaxTokens     int           `env:"SUMMARY_MAX_TOKENS,default=400"`
	APIKey               string        `env:"API_KEY"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CHARACTER_REPLACEMENT must be a single character, got %q", str)
	}
	return r[0], nil
}
