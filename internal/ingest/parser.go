package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSourceUnavailable means the snapshot file could not be read.
	ErrSourceUnavailable = errors.New("market source unavailable")
	// ErrEmptySource means the snapshot file exists but is blank.
	ErrEmptySource = errors.New("market source is empty")
	// ErrMalformedSource means the content is not a JSON array of objects.
	ErrMalformedSource = errors.New("market source is malformed")
)

// FailureKind returns a short label for a load error, used in logs and
// metric labels.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrEmptySource):
		return "empty_source"
	case errors.Is(err, ErrMalformedSource):
		return "malformed_source"
	default:
		return "unknown"
	}
}

// LoadFile reads the snapshot at path and parses it.
func LoadFile(path string) ([]RawMarket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return ParseRaw(data)
}

// ParseRaw decodes a snapshot payload. Elements are decoded one by one so a
// bad record can be reported by position.
func ParseRaw(data []byte) ([]RawMarket, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptySource
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedSource)
		}
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrMalformedSource)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}

	records := make([]RawMarket, 0, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedSource, i)
		}
		var rec RawMarket
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrMalformedSource, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
