package feeders

import (
	"encoding/json"
	"fmt"
)

// JSONFeeder is a feeder that reads JSON files
type JSONFeeder struct {
	Path string
}

// NewJSONFeeder creates a new JSONFeeder that reads from the specified JSON file
func NewJSONFeeder(filePath string) JSONFeeder {
	return JSONFeeder{Path: filePath}
}

// Feed decodes the file into target.
func (j JSONFeeder) Feed(target any) error {
	data, err := readFile("json", j.Path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal json %s: %w", j.Path, err)
	}
	return nil
}
