package source

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadJSONFile reads a collection from a JSON file. The file must contain
// a top-level array; elements may be objects (searched through configured
// keys) or plain strings (matched directly).
func LoadJSONFile(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes a JSON array into a record collection.
func ParseJSON(data []byte) ([]any, error) {
	var records []any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("collection must be a JSON array: %w", err)
	}
	return records, nil
}
