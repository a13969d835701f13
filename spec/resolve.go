package spec

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MaxDepth is how deep the simplifier descends into a schema. Every `$ref`,
// property, array item and composition branch costs one level; anything past
// this bound collapses to a bare object. This is what keeps simplification
// finite on self-referencing and mutually recursive component schemas.
const MaxDepth = 3

// ReferenceError reports a `$ref` whose target doesn't exist in the
// document, or exists but could not be decoded (Err is set then). It is never
// fatal: the reference resolves to a placeholder and generation continues.
type ReferenceError struct {
	Ref string
	Err error
}

func (e *ReferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unresolved reference %q: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("unresolved reference %q", e.Ref)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// Resolver dereferences and simplifies schemas against one document. It
// records every reference it couldn't resolve, so a Resolver belongs to a
// single run and must not be shared between runs.
type Resolver struct {
	doc        *Document
	logger     *zap.Logger
	unresolved []*ReferenceError
	reported   map[string]bool
}

// NewResolver creates a Resolver for doc.
func NewResolver(doc *Document, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		doc:      doc,
		logger:   logger.With(zap.String("component", "schema_resolver")),
		reported: make(map[string]bool),
	}
}

// Unresolved returns the references that could not be resolved, in the order
// they were first encountered.
func (r *Resolver) Unresolved() []*ReferenceError {
	return r.unresolved
}

// Simplify dereferences s and reduces it to the allow-listed fields: type,
// format, description, enum, properties, items, required, minimum, maximum
// and default. Property order follows the source document.
func (r *Resolver) Simplify(s *Schema) *Schema {
	return r.simplify(s, 0)
}

// Parameter follows a parameter `$ref` to its component definition.
func (r *Resolver) Parameter(p *Parameter) (*Parameter, bool) {
	for hops := 0; p != nil && p.Ref != ""; hops++ {
		name, ok := componentName(p.Ref, "parameters")
		target := r.doc.Components.Parameters[name]
		if !ok || target == nil || hops >= MaxDepth {
			r.report(p.Ref, r.decodeError("parameters", name))
			return nil, false
		}
		p = target
	}
	return p, p != nil
}

// RequestBody follows a request body `$ref` to its component definition.
func (r *Resolver) RequestBody(b *RequestBody) (*RequestBody, bool) {
	for hops := 0; b != nil && b.Ref != ""; hops++ {
		name, ok := componentName(b.Ref, "requestBodies")
		target := r.doc.Components.RequestBodies[name]
		if !ok || target == nil || hops >= MaxDepth {
			r.report(b.Ref, r.decodeError("requestBodies", name))
			return nil, false
		}
		b = target
	}
	return b, b != nil
}

// Response follows a response `$ref` to its component definition.
func (r *Resolver) Response(resp *Response) (*Response, bool) {
	for hops := 0; resp != nil && resp.Ref != ""; hops++ {
		name, ok := componentName(resp.Ref, "responses")
		target := r.doc.Components.Responses[name]
		if !ok || target == nil || hops >= MaxDepth {
			r.report(resp.Ref, r.decodeError("responses", name))
			return nil, false
		}
		resp = target
	}
	return resp, resp != nil
}

func (r *Resolver) simplify(s *Schema, depth int) *Schema {
	if s == nil || depth > MaxDepth {
		return placeholder()
	}

	if s.Ref != "" {
		target, ok := r.schema(s.Ref)
		if !ok {
			return placeholder()
		}
		return r.simplify(target, depth+1)
	}

	out := &Schema{
		Type:        s.Type,
		Format:      s.Format,
		Description: s.Description,
		Enum:        append([]interface{}(nil), s.Enum...),
		Required:    append([]string(nil), s.Required...),
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		Default:     s.Default,
	}

	for _, member := range s.AllOf {
		merge(out, r.simplify(member, depth+1))
	}

	if out.Type == "" && len(s.AllOf) == 0 && s.Properties == nil && s.Items == nil {
		branches := s.OneOf
		if len(branches) == 0 {
			branches = s.AnyOf
		}
		if len(branches) > 0 {
			first := r.simplify(branches[0], depth+1)
			if out.Description != "" {
				first.Description = out.Description
			}
			return first
		}
	}

	if s.Properties != nil {
		if out.Properties == nil {
			out.Properties = NewProperties()
		}
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties.Set(pair.Key, r.simplify(pair.Value, depth+1))
		}
	}

	if s.Items != nil {
		out.Items = r.simplify(s.Items, depth+1)
	}

	if out.Type == "" && out.Properties != nil {
		out.Type = TypeObject
	}
	if len(out.Enum) == 0 {
		out.Enum = nil
	}
	coerceLiterals(out)
	if len(out.Required) == 0 {
		out.Required = nil
	}
	return out
}

func (r *Resolver) schema(ref string) (*Schema, bool) {
	name, ok := componentName(ref, "schemas")
	if !ok {
		r.report(ref, nil)
		return nil, false
	}
	target, ok := r.doc.Components.Schemas[name]
	if !ok || target == nil {
		r.report(ref, r.decodeError("schemas", name))
		return nil, false
	}
	return target, true
}

// decodeError returns why a component was dropped while decoding, if it was.
func (r *Resolver) decodeError(section, name string) error {
	if name == "" {
		return nil
	}
	return r.doc.Components.Invalid[componentKey(section, name)]
}

func (r *Resolver) report(ref string, cause error) {
	if r.reported[ref] {
		return
	}
	r.reported[ref] = true
	r.unresolved = append(r.unresolved, &ReferenceError{Ref: ref, Err: cause})
	if cause != nil {
		r.logger.Warn("malformed component, using placeholder", zap.String("ref", ref), zap.Error(cause))
		return
	}
	r.logger.Warn("unresolved reference, using placeholder", zap.String("ref", ref))
}

// ---

// componentName extracts the name of a component from a local JSON pointer,
// so "#/components/schemas/charge" would become just "charge" when section is
// "schemas". External references are not followed.
func componentName(pointer string, section string) (string, bool) {
	parts := strings.Split(pointer, "/")

	if len(parts) != 4 ||
		parts[0] != "#" ||
		parts[1] != "components" ||
		parts[2] != section ||
		parts[3] == "" {
		return "", false
	}

	name := strings.ReplaceAll(parts[3], "~1", "/")
	name = strings.ReplaceAll(name, "~0", "~")
	return name, true
}

// merge folds an allOf member into dst. Fields already set on dst win;
// properties and required names accumulate in member order.
func merge(dst, src *Schema) {
	if dst.Type == "" {
		dst.Type = src.Type
	}
	if dst.Format == "" {
		dst.Format = src.Format
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if len(dst.Enum) == 0 {
		dst.Enum = src.Enum
	}
	if dst.Items == nil {
		dst.Items = src.Items
	}
	if dst.Minimum == nil {
		dst.Minimum = src.Minimum
	}
	if dst.Maximum == nil {
		dst.Maximum = src.Maximum
	}
	if dst.Default == nil {
		dst.Default = src.Default
	}
	if src.Properties != nil {
		if dst.Properties == nil {
			dst.Properties = NewProperties()
		}
		for pair := src.Properties.Oldest(); pair != nil; pair = pair.Next() {
			dst.Properties.Set(pair.Key, pair.Value)
		}
	}
	dst.Required = AppendUnique(dst.Required, src.Required...)
}

func placeholder() *Schema {
	return &Schema{Type: TypeObject}
}

// AppendUnique appends each name not already present in list.
func AppendUnique(list []string, names ...string) []string {
	for _, name := range names {
		found := false
		for _, existing := range list {
			if existing == name {
				found = true
				break
			}
		}
		if !found {
			list = append(list, name)
		}
	}
	return list
}
