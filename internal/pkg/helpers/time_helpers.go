package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a positive duration such as "12h", logging and
// returning fallback for anything else.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err == nil && d > 0 {
		return d
	}
	log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
	return fallback
}
