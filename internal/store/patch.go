package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Patch is a set of top-level JSON fields to overwrite on a record.
type Patch map[string]json.RawMessage

// Filter matches records whose JSON fields equal the given string values.
type Filter map[string]string

// PatchFrom builds a Patch from a map of plain values.
func PatchFrom(values map[string]any) (Patch, error) {
	patch := make(Patch, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidPatch, k, err)
		}
		patch[k] = raw
	}
	return patch, nil
}

// Apply shallow-merges patch into rec. Top-level keys replace the stored
// value wholesale and "id" is never overwritten. Keys unknown to T and values
// of the wrong type yield ErrInvalidPatch.
func Apply[T any](rec T, patch Patch) (T, error) {
	var zero T

	fields, err := fieldsOf(rec)
	if err != nil {
		return zero, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()

	var out T
	if err := dec.Decode(&out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return out, nil
}

// Matches reports whether every filter entry equals the record's field.
// Strings compare verbatim; numbers and booleans compare by their JSON text.
func Matches[T any](rec T, filter Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	fields, err := fieldsOf(rec)
	if err != nil {
		return false, err
	}
	for k, want := range filter {
		if fieldString(fields[k]) != want {
			return false, nil
		}
	}
	return true, nil
}

func fieldsOf(rec any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return fields, nil
}

func fieldString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
