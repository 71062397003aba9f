package feeders

import (
	"fmt"
	"sort"

	"github.com/joho/godotenv"
)

// DotEnvFeeder reads a .env file and applies its variables with the same
// naming rules as EnvFeeder. The variables are never exported to the process
// environment.
type DotEnvFeeder struct {
	Path   string
	Prefix string

	logger interface {
		Debug(msg string, args ...any)
	}
}

// NewDotEnvFeeder creates a feeder for the .env file at filePath using
// DefaultEnvPrefix.
func NewDotEnvFeeder(filePath string) *DotEnvFeeder {
	return &DotEnvFeeder{Path: filePath, Prefix: DefaultEnvPrefix}
}

// SetVerboseDebug enables per-variable debug logging.
func (f *DotEnvFeeder) SetVerboseDebug(enabled bool, logger interface{ Debug(msg string, args ...any) }) {
	if !enabled {
		f.logger = nil
		return
	}
	f.logger = logger
}

// Feed populates a *config.Config.
func (f *DotEnvFeeder) Feed(target any) error {
	vars, err := f.read()
	if err != nil {
		return err
	}
	env := EnvFeeder{Prefix: f.Prefix, lookup: func() []string { return vars }}
	return env.Feed(target)
}

// read parses the file into KEY=VALUE pairs sorted by key.
func (f *DotEnvFeeder) read() ([]string, error) {
	data, err := readFile("dotenv", f.Path)
	if err != nil {
		return nil, err
	}
	parsed, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDotEnvInvalidFormat, f.Path, err)
	}

	vars := make([]string, 0, len(parsed))
	for k, v := range parsed {
		if f.logger != nil {
			f.logger.Debug("DotEnvFeeder: Parsed variable", "key", k, "filePath", f.Path)
		}
		vars = append(vars, k+"="+v)
	}
	sort.Strings(vars)
	return vars, nil
}
