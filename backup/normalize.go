// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"fmt"
	"time"
)

// ValueKind classifies a raw attribute value from the source. The
// set is closed: every value the normalizer sees resolves to exactly
// one kind, and each kind has exactly one conversion rule. This
// replaces ad-hoc runtime type casting with a fixed contract — a new
// upstream value shape cannot silently change the archive schema, it
// classifies as KindUnsupported and is dropped.
type ValueKind int

const (
	// KindPrimitive is a value that is already JSON-safe: nil, bool,
	// string, or any numeric type. Passed through unchanged.
	KindPrimitive ValueKind = iota

	// KindTimestamp is a time.Time. Converted to its ISO-8601 string
	// form (RFC 3339).
	KindTimestamp

	// KindOpaque is a non-primitive value with a canonical string
	// representation (fmt.Stringer): asset handles, color values,
	// typed identifiers. Converted via String().
	KindOpaque

	// KindCollection is a slice or string-keyed map. Elements are
	// normalized recursively; elements that classify as
	// KindUnsupported are dropped.
	KindCollection

	// KindUnsupported is everything else. Unsupported values are
	// omitted from the archive rather than aborting collection.
	KindUnsupported
)

// String returns the kind's name for logging.
func (k ValueKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindTimestamp:
		return "timestamp"
	case KindOpaque:
		return "opaque"
	case KindCollection:
		return "collection"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Classify resolves a raw value to its ValueKind.
func Classify(value any) ValueKind {
	switch value.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindPrimitive
	case time.Time:
		return KindTimestamp
	case []any, []string, []int, []int64, []float64, map[string]any:
		return KindCollection
	}
	if _, ok := value.(fmt.Stringer); ok {
		return KindOpaque
	}
	return KindUnsupported
}

// NormalizeValue converts one raw attribute value to its JSON-safe
// equivalent per the kind's conversion rule. The second return is
// false when the value is unsupported and must be omitted.
// Normalization is idempotent: applying it to an already-normalized
// value returns the value unchanged.
func NormalizeValue(value any) (any, bool) {
	switch Classify(value) {
	case KindPrimitive:
		return value, true

	case KindTimestamp:
		return value.(time.Time).Format(time.RFC3339), true

	case KindOpaque:
		return value.(fmt.Stringer).String(), true

	case KindCollection:
		return normalizeCollection(value), true

	default:
		return nil, false
	}
}

// NormalizeInfo builds the JSON-safe info mapping from a raw
// workspace attribute mapping. Attributes whose values cannot be
// normalized are omitted — an unreadable attribute never aborts
// collection.
func NormalizeInfo(raw map[string]any) map[string]any {
	info := make(map[string]any, len(raw))
	for name, value := range raw {
		normalized, ok := NormalizeValue(value)
		if !ok {
			continue
		}
		info[name] = normalized
	}
	return info
}

func normalizeCollection(value any) any {
	switch collection := value.(type) {
	case []any:
		normalized := make([]any, 0, len(collection))
		for _, element := range collection {
			if converted, ok := NormalizeValue(element); ok {
				normalized = append(normalized, converted)
			}
		}
		return normalized

	case map[string]any:
		return NormalizeInfo(collection)

	default:
		// Homogeneous primitive slices ([]string, []int, ...) are
		// already JSON-safe.
		return value
	}
}
