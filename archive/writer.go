// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive turns a finished snapshot into a durable artifact:
// a zip container holding a single JSON entry, built entirely in
// memory and written to disk in one call. No temporary file ever
// touches the filesystem — an interrupted process leaves either the
// previous state or the complete archive, never a partial file.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/guildsnap/guildsnap/backup"
)

// ErrUnencodable is returned when a snapshot value survives upstream
// normalization but still cannot be serialized, even after the
// string-coercion fallback. This is a fatal encoding error — it
// should not occur for snapshots produced by the assembler.
var ErrUnencodable = errors.New("archive: value cannot be encoded")

// Build serializes the snapshot to indented JSON and compresses it
// into a zip buffer with exactly one entry. The entry is named after
// the outer file name's stem with a .json extension, and deflate runs
// at maximum compression — the artifact is written once and read
// rarely, so density wins over speed.
func Build(snapshot *backup.Snapshot, fileName string) ([]byte, error) {
	sanitized, err := sanitizeSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	encoded, err := json.MarshalIndent(sanitized, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("archive: encoding snapshot: %w", err)
	}

	buffer := new(bytes.Buffer)
	writer := zip.NewWriter(buffer)
	writer.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	entry, err := writer.Create(EntryName(fileName))
	if err != nil {
		return nil, fmt.Errorf("archive: creating zip entry: %w", err)
	}
	if _, err := entry.Write(encoded); err != nil {
		return nil, fmt.Errorf("archive: writing zip entry: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("archive: finalizing zip: %w", err)
	}

	return buffer.Bytes(), nil
}

// EntryName derives the internal entry name from the outer archive
// file name: the stem plus a .json extension.
func EntryName(fileName string) string {
	base := path.Base(fileName)
	return strings.TrimSuffix(base, path.Ext(base)) + ".json"
}

// sanitizeSnapshot applies the leftover-value coercion pass to the
// parts of the snapshot that can carry arbitrary values. Members and
// messages are fully typed and need no inspection.
func sanitizeSnapshot(snapshot *backup.Snapshot) (*backup.Snapshot, error) {
	info, err := sanitizeMap(snapshot.Info)
	if err != nil {
		return nil, err
	}
	return &backup.Snapshot{
		Info:     info,
		Members:  snapshot.Members,
		Channels: snapshot.Channels,
	}, nil
}

func sanitizeMap(values map[string]any) (map[string]any, error) {
	sanitized := make(map[string]any, len(values))
	for key, value := range values {
		converted, err := sanitizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", key, err)
		}
		sanitized[key] = converted
	}
	return sanitized, nil
}

// sanitizeValue coerces one value to a serializable form. The ruleset
// is closed: JSON-safe values pass through, timestamps and Stringers
// coerce to strings, containers recurse, and anything the JSON
// encoder rejects after all that is a fatal ErrUnencodable.
func sanitizeValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return value, nil

	case time.Time:
		return v.Format(time.RFC3339), nil

	case map[string]any:
		return sanitizeMap(v)

	case []any:
		sanitized := make([]any, len(v))
		for index, element := range v {
			converted, err := sanitizeValue(element)
			if err != nil {
				return nil, err
			}
			sanitized[index] = converted
		}
		return sanitized, nil
	}

	if stringer, ok := value.(fmt.Stringer); ok {
		return stringer.String(), nil
	}

	// Unknown type: probe the encoder rather than guessing. Plain
	// structs and primitive slices pass; channels, funcs, and cyclic
	// values do not.
	if _, err := json.Marshal(value); err != nil {
		return nil, fmt.Errorf("%w: type %T", ErrUnencodable, value)
	}
	return value, nil
}
