// Package action converts the operations of an OpenAPI document into action
// descriptors: one per recognized (path, verb) pair that isn't deprecated.
package action

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yougroupteam/adaptergen/naming"
	"github.com/yougroupteam/adaptergen/spec"
)

// Verbs are the HTTP verbs that produce actions, in the order they are
// visited within a path. Anything else declared on a path is ignored.
var Verbs = []spec.HTTPVerb{spec.Get, spec.Post, spec.Put, spec.Patch, spec.Delete}

var verbWords = map[spec.HTTPVerb]string{
	spec.Get:    "Get",
	spec.Post:   "Create",
	spec.Put:    "Update",
	spec.Patch:  "Update",
	spec.Delete: "Delete",
}

// Request body media types, most preferred first.
var bodyMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Success responses whose JSON body becomes the output schema, in order.
var outputStatusCodes = []spec.StatusCode{"200", "201"}

// Action is a single callable operation exposed by an adapter.
type Action struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	InputSchema  *spec.Schema `json:"inputSchema"`
	OutputSchema *spec.Schema `json:"outputSchema,omitempty"`
}

// OperationParseError reports an operation that was skipped because it is
// malformed. It never aborts a run.
type OperationParseError struct {
	Path string
	Verb spec.HTTPVerb
	Err  error
}

func (e *OperationParseError) Error() string {
	if e.Verb == "" {
		return fmt.Sprintf("skipping %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("skipping %s %s: %v", strings.ToUpper(string(e.Verb)), e.Path, e.Err)
}

func (e *OperationParseError) Unwrap() error {
	return e.Err
}

// Result is the outcome of synthesizing one document.
type Result struct {
	Actions []*Action

	// Categories lists each distinct action category in order of first
	// appearance.
	Categories []string

	// Skipped holds one error per malformed operation.
	Skipped []*OperationParseError
}

// Synthesizer builds actions for one document.
type Synthesizer struct {
	resolver *spec.Resolver
	logger   *zap.Logger
}

// NewSynthesizer creates a Synthesizer that simplifies schemas with resolver.
func NewSynthesizer(resolver *spec.Resolver, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		resolver: resolver,
		logger:   logger.With(zap.String("component", "action_synthesizer")),
	}
}

// Synthesize walks paths in document order and verbs in the order of Verbs.
// The same document always yields the same actions in the same order.
func (s *Synthesizer) Synthesize(doc *spec.Document) *Result {
	result := &Result{Actions: make([]*Action, 0)}
	ids := naming.NewUnique()
	seenCategories := make(map[string]bool)

	if doc.Paths == nil {
		return result
	}

	for pair := doc.Paths.Oldest(); pair != nil; pair = pair.Next() {
		path, item := pair.Key, pair.Value

		if item != nil && item.Err != nil && len(item.Operations) == 0 && len(item.Invalid) == 0 {
			s.skip(result, &OperationParseError{Path: path, Err: item.Err})
			continue
		}

		for _, verb := range Verbs {
			action, err := s.synthesizeOne(path, verb, item)
			if err != nil {
				s.skip(result, &OperationParseError{Path: path, Verb: verb, Err: err})
				continue
			}
			if action == nil {
				continue
			}

			action.ID = ids.Claim(action.ID)
			result.Actions = append(result.Actions, action)
			if !seenCategories[action.Category] {
				seenCategories[action.Category] = true
				result.Categories = append(result.Categories, action.Category)
			}
		}
	}

	s.logger.Debug("synthesized actions",
		zap.Int("actions", len(result.Actions)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result
}

func (s *Synthesizer) skip(result *Result, err *OperationParseError) {
	s.logger.Warn("skipping malformed operation",
		zap.String("path", err.Path),
		zap.String("verb", string(err.Verb)),
		zap.Error(err.Err),
	)
	result.Skipped = append(result.Skipped, err)
}

// synthesizeOne returns a nil action without error when there is nothing to
// generate: no operation for verb, or a deprecated one.
func (s *Synthesizer) synthesizeOne(path string, verb spec.HTTPVerb, item *spec.PathItem) (*Action, error) {
	if item == nil {
		return nil, nil
	}
	if err, ok := item.Invalid[verb]; ok {
		return nil, err
	}
	op, ok := item.Operation(verb)
	if !ok || op.Deprecated {
		return nil, nil
	}
	if item.Err != nil {
		return nil, item.Err
	}

	params, err := s.resolver.OperationParameters(item, op)
	if err != nil {
		return nil, err
	}

	return &Action{
		ID:           ID(path, verb, op),
		Name:         Name(path, verb, op),
		Description:  description(path, verb, op),
		Category:     Category(path, op),
		InputSchema:  s.inputSchema(params, op),
		OutputSchema: s.outputSchema(op),
	}, nil
}

func (s *Synthesizer) inputSchema(params []*spec.Parameter, op *spec.Operation) *spec.Schema {
	schema := s.resolver.BuildParameterSchema(params)

	body, ok := s.resolver.RequestBody(op.RequestBody)
	if !ok {
		return schema
	}
	media, ok := preferredMedia(body.Content, bodyMediaTypes)
	if !ok {
		media, ok = jsonMedia(body.Content)
	}
	if !ok || media.Schema == nil {
		return schema
	}

	bodySchema := s.resolver.Simplify(media.Schema)
	if bodySchema.Properties == nil || bodySchema.Properties.Len() == 0 {
		// A body that isn't an object (an array, a bare string) can't be
		// spread into the input, so it is passed whole.
		if bodySchema.Type != "" && bodySchema.Type != spec.TypeObject {
			schema.Properties.Set("body", bodySchema)
			if body.Required {
				schema.Required = spec.AppendUnique(schema.Required, "body")
			}
		}
		return schema
	}

	for pair := bodySchema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		schema.Properties.Set(pair.Key, pair.Value)
	}
	schema.Required = spec.AppendUnique(schema.Required, bodySchema.Required...)
	return schema
}

func (s *Synthesizer) outputSchema(op *spec.Operation) *spec.Schema {
	for _, code := range outputStatusCodes {
		declared, ok := op.Responses[code]
		if !ok {
			continue
		}
		response, ok := s.resolver.Response(&declared)
		if !ok {
			continue
		}
		media, ok := jsonMedia(response.Content)
		if !ok || media.Schema == nil {
			continue
		}
		return s.resolver.Simplify(media.Schema)
	}
	return nil
}

// ID derives the action id from the declared operation id, or from the verb
// and path when there is none.
func ID(path string, verb spec.HTTPVerb, op *spec.Operation) string {
	if op.OperationID != "" {
		return naming.FromOperationID(op.OperationID)
	}
	return naming.FromVerbAndPath(string(verb), path)
}

// Name is the declared summary, or a verb word plus the title-cased last path
// segment ("Get Widgets", "Create Refunds").
func Name(path string, verb spec.HTTPVerb, op *spec.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	word := verbWords[verb]
	segments := naming.Segments(path)
	if len(segments) == 0 {
		return word
	}
	return word + " " + naming.Title(segments[len(segments)-1])
}

// Category is the first tag, else the first path segment, else the fallback.
func Category(path string, op *spec.Operation) string {
	if len(op.Tags) > 0 {
		if category := naming.Category(op.Tags[0]); category != "" {
			return category
		}
	}
	segments := naming.Segments(path)
	if len(segments) > 0 {
		if category := naming.Identifier(segments[0]); category != "" {
			return category
		}
	}
	return naming.FallbackCategory
}

func description(path string, verb spec.HTTPVerb, op *spec.Operation) string {
	switch {
	case op.Description != "":
		return op.Description
	case op.Summary != "":
		return op.Summary
	}
	return fmt.Sprintf("%s %s", strings.ToUpper(string(verb)), path)
}

// ---

func preferredMedia(content map[string]spec.MediaType, preferred []string) (spec.MediaType, bool) {
	for _, mediaType := range preferred {
		if media, ok := content[mediaType]; ok {
			return media, true
		}
	}
	return spec.MediaType{}, false
}

// jsonMedia picks application/json, then any other JSON media type
// (application/problem+json, application/vnd.api+json) in sorted order.
func jsonMedia(content map[string]spec.MediaType) (spec.MediaType, bool) {
	if media, ok := content["application/json"]; ok {
		return media, true
	}
	var candidates []string
	for mediaType := range content {
		if strings.Contains(mediaType, "json") {
			candidates = append(candidates, mediaType)
		}
	}
	if len(candidates) == 0 {
		return spec.MediaType{}, false
	}
	sort.Strings(candidates)
	return content[candidates[0]], true
}
