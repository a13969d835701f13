package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is returned when a source can't be decoded into an
// OpenAPI document or doesn't satisfy the input contract.
var ErrInvalidDocument = errors.New("invalid OpenAPI document")

// Decode parses an OpenAPI document written as JSON or YAML, checks it
// against the input contract, and returns the typed document.
//
// YAML is normalized to JSON first (see yamlToJSON) so that both formats go
// through the same decoder and keep their key order.
func Decode(data []byte) (*Document, error) {
	raw, err := ToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if err := ValidateDocument(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Paths == nil {
		doc.Paths = NewPaths()
	}
	return &doc, nil
}

// ToJSON returns data unchanged if it looks like JSON and converts it from
// YAML otherwise.
func ToJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}
	if trimmed[0] == '{' {
		return trimmed, nil
	}
	return yamlToJSON(trimmed)
}
