package spec

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema type names.
const (
	TypeArray   SchemaType = "array"
	TypeBoolean SchemaType = "boolean"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
)

// Parameter locations.
const (
	ParameterCookie = "cookie"
	ParameterHeader = "header"
	ParameterPath   = "path"
	ParameterQuery  = "query"
)

// HTTP verbs that may appear as keys of a path item.
const (
	Delete  HTTPVerb = "delete"
	Get     HTTPVerb = "get"
	Head    HTTPVerb = "head"
	Options HTTPVerb = "options"
	Patch   HTTPVerb = "patch"
	Post    HTTPVerb = "post"
	Put     HTTPVerb = "put"
	Trace   HTTPVerb = "trace"
)

// Properties is an insertion-ordered map of property name to schema.
type Properties = orderedmap.OrderedMap[string, *Schema]

// Paths is an insertion-ordered map of path template (or webhook name) to
// path item.
type Paths = orderedmap.OrderedMap[string, *PathItem]

// NewPaths returns an empty, ready to use Paths map.
func NewPaths() *Paths {
	return orderedmap.New[string, *PathItem]()
}

// NewProperties returns an empty, ready to use Properties map.
func NewProperties() *Properties {
	return orderedmap.New[string, *Schema]()
}

// Components holds the reusable definitions of a document. Entries that fail
// to decode are left out of their section and their errors kept in Invalid,
// keyed by componentKey, so a reference to one resolves to a placeholder
// instead of failing the whole document.
type Components struct {
	Parameters    map[string]*Parameter   `json:"parameters,omitempty"`
	RequestBodies map[string]*RequestBody `json:"requestBodies,omitempty"`
	Responses     map[string]*Response    `json:"responses,omitempty"`
	Schemas       map[string]*Schema      `json:"schemas,omitempty"`

	Invalid map[string]error `json:"-"`
}

func (c *Components) UnmarshalJSON(data []byte) error {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("components is not an object: %w", err)
	}

	c.Parameters = decodeComponents[Parameter](c, "parameters", sections["parameters"])
	c.RequestBodies = decodeComponents[RequestBody](c, "requestBodies", sections["requestBodies"])
	c.Responses = decodeComponents[Response](c, "responses", sections["responses"])
	c.Schemas = decodeComponents[Schema](c, "schemas", sections["schemas"])
	return nil
}

func (c *Components) invalid(key string, err error) {
	if c.Invalid == nil {
		c.Invalid = make(map[string]error)
	}
	c.Invalid[key] = err
}

// decodeComponents decodes one components section entry by entry.
func decodeComponents[T any](c *Components, section string, raw json.RawMessage) map[string]*T {
	if len(raw) == 0 {
		return nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.invalid(section, fmt.Errorf("decoding components.%s: %w", section, err))
		return nil
	}

	out := make(map[string]*T, len(entries))
	for name, entry := range entries {
		if string(entry) == "null" {
			continue
		}
		var v T
		if err := json.Unmarshal(entry, &v); err != nil {
			c.invalid(componentKey(section, name), err)
			continue
		}
		out[name] = &v
	}
	return out
}

// componentKey identifies a component within Components.Invalid.
func componentKey(section, name string) string {
	return section + "/" + name
}

// Document is a decoded OpenAPI document. Paths and webhooks keep the order in
// which they appear in the source.
type Document struct {
	Components Components `json:"components"`
	Info       Info       `json:"info"`
	OpenAPI    Text       `json:"openapi"`
	Paths      *Paths     `json:"paths"`
	Servers    []Server   `json:"servers,omitempty"`
	Webhooks   *Paths     `json:"webhooks,omitempty"`
}

type HTTPVerb string

type Info struct {
	Description string `json:"description,omitempty"`
	Title       string `json:"title"`
	Version     Text   `json:"version"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

type Operation struct {
	Deprecated  bool                    `json:"deprecated,omitempty"`
	Description string                  `json:"description,omitempty"`
	OperationID string                  `json:"operationId,omitempty"`
	Parameters  []*Parameter            `json:"parameters,omitempty"`
	RequestBody *RequestBody            `json:"requestBody,omitempty"`
	Responses   map[StatusCode]Response `json:"responses,omitempty"`
	Summary     string                  `json:"summary,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
}

type Parameter struct {
	Deprecated  bool    `json:"deprecated,omitempty"`
	Description string  `json:"description,omitempty"`
	In          string  `json:"in,omitempty"`
	Name        string  `json:"name,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`

	// Ref is populated if this parameter is a reference to
	// #/components/parameters/<name>.
	Ref string `json:"$ref,omitempty"`
}

// PathItem holds the operations declared under one path template (or one
// webhook name). Operations that fail to decode do not fail the document;
// their errors are kept in Invalid so that callers can skip and report them.
type PathItem struct {
	Description string
	Operations  map[HTTPVerb]*Operation
	Parameters  []*Parameter
	Summary     string

	// Invalid holds a decode error per verb whose operation was malformed.
	Invalid map[HTTPVerb]error

	// Err is set when the path item itself (or its shared parameter list)
	// could not be decoded. Every operation below it is then unusable.
	Err error
}

var pathItemVerbs = map[string]HTTPVerb{
	"delete":  Delete,
	"get":     Get,
	"head":    Head,
	"options": Options,
	"patch":   Patch,
	"post":    Post,
	"put":     Put,
	"trace":   Trace,
}

func (p *PathItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		p.Err = fmt.Errorf("path item is not an object: %w", err)
		return nil
	}

	for key, raw := range fields {
		switch key {
		case "description":
			_ = json.Unmarshal(raw, &p.Description)
		case "summary":
			_ = json.Unmarshal(raw, &p.Summary)
		case "parameters":
			if err := json.Unmarshal(raw, &p.Parameters); err != nil {
				p.Parameters = nil
				p.Err = fmt.Errorf("decoding shared parameters: %w", err)
			}
		default:
			verb, ok := pathItemVerbs[key]
			if !ok {
				continue
			}
			var operation Operation
			if err := json.Unmarshal(raw, &operation); err != nil {
				if p.Invalid == nil {
					p.Invalid = make(map[HTTPVerb]error)
				}
				p.Invalid[verb] = err
				continue
			}
			if p.Operations == nil {
				p.Operations = make(map[HTTPVerb]*Operation)
			}
			p.Operations[verb] = &operation
		}
	}
	return nil
}

type RequestBody struct {
	Content     map[string]MediaType `json:"content,omitempty"`
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required,omitempty"`

	// Ref is populated if this request body is a reference to
	// #/components/requestBodies/<name>.
	Ref string `json:"$ref,omitempty"`
}

type Response struct {
	Content     map[string]MediaType `json:"content,omitempty"`
	Description string               `json:"description,omitempty"`

	// Ref is populated if this response is a reference to
	// #/components/responses/<name>.
	Ref string `json:"$ref,omitempty"`
}

// Schema is an OpenAPI schema object. Only the fields that the simplifier
// reads or emits are decoded; everything else in the source is ignored.
type Schema struct {
	// Ref is populated if this JSON Schema is actually a JSON reference, and
	// it defines the location of the actual schema definition.
	Ref string `json:"$ref,omitempty"`

	Type        SchemaType    `json:"type,omitempty"`
	Format      string        `json:"format,omitempty"`
	Description string        `json:"description,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
	Properties  *Properties   `json:"properties,omitempty"`
	Items       *Schema       `json:"items,omitempty"`
	Required    []string      `json:"required,omitempty"`
	Minimum     *float64      `json:"minimum,omitempty"`
	Maximum     *float64      `json:"maximum,omitempty"`
	Default     interface{}   `json:"default,omitempty"`

	// Source-only fields. The simplifier reads them but never emits them.
	AllOf    []*Schema `json:"allOf,omitempty"`
	AnyOf    []*Schema `json:"anyOf,omitempty"`
	Nullable bool      `json:"nullable,omitempty"`
	OneOf    []*Schema `json:"oneOf,omitempty"`
}

// SchemaType is a schema's `type`. OpenAPI 3.1 allows a list of types; in
// that case the first entry that isn't "null" is kept.
type SchemaType string

func (t *SchemaType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = SchemaType(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("schema type must be a string or a list of strings: %w", err)
	}
	*t = ""
	for _, name := range many {
		if name != "null" {
			*t = SchemaType(name)
			break
		}
	}
	return nil
}

type Server struct {
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

type StatusCode string

// Text is a string field that hand-written YAML documents commonly leave
// unquoted (`openapi: 3.0`, `version: 1.2`). Numbers are kept verbatim.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or a number: %w", err)
	}
	*t = Text(n.String())
	return nil
}

// Operation returns the operation declared for verb, if any.
func (p *PathItem) Operation(verb HTTPVerb) (*Operation, bool) {
	if p == nil || p.Operations == nil {
		return nil, false
	}
	op, ok := p.Operations[verb]
	return op, ok && op != nil
}
