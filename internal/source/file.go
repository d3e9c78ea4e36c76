package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads a sensor snapshot from a JSON document on disk. The
// document is either {"state": ..., "attributes": {...}} or a bare
// attribute object. Re-read on every fetch so the file can be replaced
// between cycles.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, s.Path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	if len(snap.Attributes) == 0 {
		// Bare attribute object without the state wrapper.
		var attrs map[string]any
		if err := json.Unmarshal(data, &attrs); err == nil && len(attrs) > 0 {
			if _, wrapped := attrs["attributes"]; !wrapped {
				snap.Attributes = attrs
			}
		}
	}
	if len(snap.Attributes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAttributes, s.Path)
	}
	return &snap, nil
}
