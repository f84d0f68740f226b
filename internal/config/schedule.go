package config

import "time"

// ScheduleConfig holds daily report scheduling configuration
type ScheduleConfig struct {
	DefaultTime     string
	DefaultTimeZone string
	RunTimeout      time.Duration
	WindowSpec      string
}

// DefaultScheduleConfig returns the default schedule configuration
func DefaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{
		DefaultTime:     "08:00",
		DefaultTimeZone: "America/Toronto",
		RunTimeout:      10 * time.Minute,
		WindowSpec:      "1d",
	}
}

// MessengerConfig holds chat delivery configuration
type MessengerConfig struct {
	Rate       float64
	Burst      int
	ChunkLimit int
}

// DefaultMessengerConfig returns the default messenger configuration
func DefaultMessengerConfig() *MessengerConfig {
	return &MessengerConfig{
		Rate:       2,
		Burst:      1,
		ChunkLimit: 2000,
	}
}
