package feeders

import (
	"fmt"
	"os"
)

// readFile reads path for a feeder of the given format.
func readFile(format, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%s: %w", format, ErrFilePathEmpty)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", format, path, err)
	}
	return data, nil
}
