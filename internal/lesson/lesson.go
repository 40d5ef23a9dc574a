// Package lesson defines the lesson record model.
//
// A lesson is an opaque JSON object with one required attribute, "id".
// Nothing else in the record is interpreted by the storage layer; the
// payload is carried verbatim so callers can evolve their record shape
// without schema changes here.
package lesson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingID indicates a record without a usable "id" attribute.
var ErrMissingID = errors.New("lesson record has no id")

// Lesson is a single stored record. ID is extracted from the raw payload
// and acts as the primary key; Raw holds the full record including the id.
type Lesson struct {
	ID  string
	Raw json.RawMessage
}

// New builds a Lesson from a raw JSON record, extracting its id.
//
// The id may be a JSON string or a JSON number on the wire; numbers are
// normalized to their decimal string form so "7" and 7 address the same
// record.
func New(raw json.RawMessage) (Lesson, error) {
	var probe struct {
		ID any `json:"id"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&probe); err != nil {
		return Lesson{}, fmt.Errorf("decode lesson record: %w", err)
	}

	switch id := probe.ID.(type) {
	case string:
		if id == "" {
			return Lesson{}, ErrMissingID
		}
		return Lesson{ID: id, Raw: raw}, nil
	case json.Number:
		return Lesson{ID: id.String(), Raw: raw}, nil
	case nil:
		return Lesson{}, ErrMissingID
	default:
		return Lesson{}, fmt.Errorf("lesson id has unsupported type %T", probe.ID)
	}
}

// DecodeArray parses a serialized lesson array, the format the fallback
// store keeps under its single entry. Elements without a usable id are
// dropped rather than failing the whole decode; reads are best-effort.
func DecodeArray(data []byte) ([]Lesson, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode lesson array: %w", err)
	}

	lessons := make([]Lesson, 0, len(raws))
	for _, raw := range raws {
		l, err := New(raw)
		if err != nil {
			continue
		}
		lessons = append(lessons, l)
	}
	return lessons, nil
}

// EncodeArray serializes lessons into the fallback store's array format,
// preserving input order.
func EncodeArray(lessons []Lesson) ([]byte, error) {
	raws := make([]json.RawMessage, len(lessons))
	for i, l := range lessons {
		raws[i] = l.Raw
	}
	data, err := json.Marshal(raws)
	if err != nil {
		return nil, fmt.Errorf("encode lesson array: %w", err)
	}
	return data, nil
}
