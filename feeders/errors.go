// Package feeders reads plugging configuration from YAML, TOML and JSON files,
// .env files and environment variables.
package feeders

import (
	"errors"
)

// Static error definitions for feeders
var (
	ErrFilePathEmpty       = errors.New("feeder: file path is empty")
	ErrEnvInvalidStructure = errors.New("env: target must be *config.Config")
	ErrEnvPrefixEmpty      = errors.New("env: prefix cannot be empty")

	ErrDotEnvInvalidFormat = errors.New("dotenv: invalid file format")
)
