// Package config holds the shared configuration helpers for the foodgram
// binaries: env-tag parsing for command configs and the fatal-exit helper
// their mains use.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target's env-tagged fields from the process environment.
// Flag overrides are applied by each command after this runs.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
