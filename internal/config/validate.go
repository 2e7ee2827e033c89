package config

import (
	"errors"
	"fmt"
	"math"
)

// Offsets past an hour in either direction are almost certainly typos.
const maxOffsetSeconds = 3600

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Transcriber.Binary == "" {
		return errors.New("transcriber.binary must be set")
	}
	if c.Transcriber.FFmpegBinary == "" {
		return errors.New("transcriber.ffmpeg_binary must be set")
	}
	if c.Transcriber.Profile == "" {
		return errors.New("transcriber.profile must be set")
	}
	if math.Abs(c.Subtitles.OffsetSeconds) > maxOffsetSeconds {
		return fmt.Errorf("subtitles.offset_seconds must be within ±%d", maxOffsetSeconds)
	}
	for name, secondsPerMB := range c.Estimator.SecondsPerMB {
		if secondsPerMB <= 0 {
			return fmt.Errorf("estimator.seconds_per_mb[%q] must be positive", name)
		}
	}
	if c.Watch.SettleSeconds < 1 {
		return errors.New("watch.settle_seconds must be at least 1")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
