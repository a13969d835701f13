// Package provider resolves the static metadata of a provider: its adapter
// type, links, authentication fields, rate limit and webhook signing. None of
// this is read from the OpenAPI document, because specs don't express it
// uniformly.
//
// A Table is immutable once built, so one table can serve any number of
// concurrent runs.
package provider

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yougroupteam/adaptergen/embedded"
)

// Defaults for providers that aren't in the table.
const (
	DefaultAuthType    = "api_key"
	DefaultAdapterType = "api"
)

type Authentication struct {
	Type   string  `json:"type" yaml:"type"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field is one credential input shown to the user.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label" yaml:"label"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
}

type Metadata struct {
	Type           string         `json:"type" yaml:"type"`
	Website        string         `json:"website,omitempty" yaml:"website"`
	Documentation  string         `json:"documentation,omitempty" yaml:"documentation"`
	Authentication Authentication `json:"authentication" yaml:"authentication"`
	RateLimit      RateLimit      `json:"rateLimit" yaml:"rateLimit"`
	Webhooks       Webhooks       `json:"webhooks" yaml:"webhooks"`
}

// RateLimit is the request envelope a provider allows. The zero value means
// unspecified.
type RateLimit struct {
	Requests int    `json:"requests,omitempty" yaml:"requests"`
	Window   string `json:"window,omitempty" yaml:"window"`
	Burst    int    `json:"burst,omitempty" yaml:"burst"`
}

type Webhooks struct {
	Supported          bool   `json:"supported" yaml:"supported"`
	SignatureHeader    string `json:"signatureHeader,omitempty" yaml:"signatureHeader"`
	SignatureAlgorithm string `json:"signatureAlgorithm,omitempty" yaml:"signatureAlgorithm"`
}

// Defaults returns the metadata used for an unknown provider: api-key
// authentication with no fields, no rate limit, no webhook support.
func Defaults() Metadata {
	return Metadata{
		Type: DefaultAdapterType,
		Authentication: Authentication{
			Type:   DefaultAuthType,
			Fields: []Field{},
		},
	}
}

// Table maps provider slugs to metadata.
type Table struct {
	entries map[string]Metadata
}

// Builtin returns the table compiled into the binary.
func Builtin() (*Table, error) {
	return Parse(embedded.Providers)
}

// Load reads a YAML table from path and layers it over the built-in one:
// entries in the file replace built-in entries with the same slug.
func Load(path string) (*Table, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return builtin, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading provider table: %w", err)
	}
	overrides, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return builtin.With(overrides), nil
}

// Parse decodes a YAML table keyed by slug. Missing parts of an entry are
// filled from Defaults.
func Parse(data []byte) (*Table, error) {
	var raw map[string]Metadata
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing provider table: %w", err)
	}

	entries := make(map[string]Metadata, len(raw))
	for slug, metadata := range raw {
		key := normalize(slug)
		if key == "" {
			return nil, errors.New("parsing provider table: empty slug")
		}
		for i, field := range metadata.Authentication.Fields {
			if field.Name == "" {
				return nil, fmt.Errorf("parsing provider table: %s: authentication field %d has no name", slug, i)
			}
		}
		if metadata.Type == "" {
			metadata.Type = DefaultAdapterType
		}
		if metadata.Authentication.Type == "" {
			metadata.Authentication.Type = DefaultAuthType
		}
		entries[key] = metadata
	}
	return &Table{entries: entries}, nil
}

// With returns a new table holding the entries of t and other; other wins on
// conflicts. Neither table is modified.
func (t *Table) With(other *Table) *Table {
	entries := make(map[string]Metadata, len(t.entries)+len(other.entries))
	for slug, metadata := range t.entries {
		entries[slug] = metadata
	}
	for slug, metadata := range other.entries {
		entries[slug] = metadata
	}
	return &Table{entries: entries}
}

// Lookup returns the metadata for slug, or Defaults and false if the slug is
// unknown. The result is a copy; changing it doesn't affect the table.
func (t *Table) Lookup(slug string) (Metadata, bool) {
	metadata, ok := t.entries[normalize(slug)]
	if !ok {
		return Defaults(), false
	}
	fields := make([]Field, len(metadata.Authentication.Fields))
	copy(fields, metadata.Authentication.Fields)
	metadata.Authentication.Fields = fields
	return metadata, true
}

// Slugs lists the known slugs in sorted order.
func (t *Table) Slugs() []string {
	slugs := make([]string, 0, len(t.entries))
	for slug := range t.entries {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

func normalize(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
