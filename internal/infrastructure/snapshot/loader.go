// Package snapshot reads the record sets the scoring commands operate on.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bibbank/riskscore/internal/domain/model"
)

var (
	// ErrInvalidSnapshot is returned when a snapshot document cannot be decoded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrEntityNotFound is returned by Find when no record carries the id.
	ErrEntityNotFound = errors.New("entity not found")
)

// Snapshot is a point-in-time export of scored subjects and their related rows.
type Snapshot struct {
	Records []model.Record `json:"records" yaml:"records"`
	Related []model.Record `json:"related" yaml:"related"`
}

// Format selects the snapshot encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a snapshot file. "-" reads from stdin as JSON.
func Load(path string) (*Snapshot, error) {
	if path == "-" {
		return Decode(os.Stdin, FormatJSON)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return Decode(f, FormatForPath(path))
}

// Decode reads a snapshot document. JSON numbers are kept as json.Number so
// large ids and amounts survive without float rounding.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	var snap Snapshot

	switch format {
	case FormatYAML:
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		if err := yaml.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}

	snap.Records = compact(snap.Records)
	snap.Related = compact(snap.Related)
	return &snap, nil
}

// Find returns the first record whose idField matches id.
func (s *Snapshot) Find(idField, id string) (model.Record, error) {
	for _, rec := range s.Records {
		if rec.String(idField) == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
}

// compact drops null entries so every record is a usable map.
func compact(records []model.Record) []model.Record {
	out := records[:0]
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
