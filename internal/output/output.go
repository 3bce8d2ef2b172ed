// Package output writes and reads the coordinate records file.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TobiSchelling/moodmap/internal/resolve"
)

// DefaultPath is the output file name used when none is configured.
const DefaultPath = "location_coordinates_cleaned.json"

// Write replaces the file at path with records as an indented JSON array.
// The file is written next to path first and renamed into place, so readers
// never see a partial file. A nil or empty slice is written as [].
func Write(path string, records []resolve.GeoRecord) error {
	if records == nil {
		records = []resolve.GeoRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Read loads the records written by Write. A missing file yields an empty
// slice.
func Read(path string) ([]resolve.GeoRecord, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []resolve.GeoRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records := []resolve.GeoRecord{}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}
