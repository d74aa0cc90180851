package runner

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadURLs reads the ordered JSON array of URLs to process.
func LoadURLs(path string) ([]string, error) {
	// #nosec G304 -- url list path comes from operator configuration.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read url list %s: %w", path, err)
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("decode url list %s: %w", path, err)
	}
	return urls, nil
}
