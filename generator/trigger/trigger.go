// Package trigger builds the event triggers of an adapter from the native
// `webhooks` section of a document plus an optional list of known events.
package trigger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yougroupteam/adaptergen/naming"
	"github.com/yougroupteam/adaptergen/spec"
)

// webhookVerbs is the order in which a webhook's operations are considered;
// the first one present describes the event.
var webhookVerbs = []spec.HTTPVerb{spec.Post, spec.Put, spec.Patch, spec.Get, spec.Delete}

// Request body media types for payloads, most preferred first.
var payloadMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
}

// Trigger is an event source an adapter can report.
type Trigger struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Event         string       `json:"event"`
	PayloadSchema *spec.Schema `json:"payloadSchema,omitempty"`
}

// Synthesizer builds triggers for one document.
type Synthesizer struct {
	resolver *spec.Resolver
	logger   *zap.Logger
}

// NewSynthesizer creates a Synthesizer that simplifies payload schemas with
// resolver.
func NewSynthesizer(resolver *spec.Resolver, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		resolver: resolver,
		logger:   logger.With(zap.String("component", "trigger_synthesizer")),
	}
}

// Synthesize returns one trigger per webhook declared in doc, in document
// order, followed by every known event not already declared, in list order.
//
// Webhooks whose describing operation is deprecated are left out, and a known
// event naming one of them does not bring it back.
func (s *Synthesizer) Synthesize(doc *spec.Document, known []string) []*Trigger {
	triggers := make([]*Trigger, 0)
	ids := naming.NewUnique()
	excluded := make(map[string]bool)

	if doc.Webhooks != nil {
		for pair := doc.Webhooks.Oldest(); pair != nil; pair = pair.Next() {
			event, item := pair.Key, pair.Value
			op := describingOperation(item)
			if op != nil && op.Deprecated {
				s.logger.Debug("skipping deprecated webhook", zap.String("event", event))
				excluded[event] = true
				continue
			}

			trigger := s.fromWebhook(event, op)
			trigger.ID = ids.Claim(trigger.ID)
			triggers = append(triggers, trigger)
		}
	}

	var events []string
	for _, event := range known {
		if !excluded[event] {
			events = append(events, event)
		}
	}
	triggers = Merge(triggers, events)

	s.logger.Debug("synthesized triggers", zap.Int("triggers", len(triggers)))
	return triggers
}

func (s *Synthesizer) fromWebhook(event string, op *spec.Operation) *Trigger {
	trigger := FromEvent(event)
	if op == nil {
		return trigger
	}

	if op.Summary != "" {
		trigger.Name = op.Summary
	}
	if op.Description != "" {
		trigger.Description = op.Description
	}

	body, ok := s.resolver.RequestBody(op.RequestBody)
	if !ok {
		return trigger
	}
	for _, mediaType := range payloadMediaTypes {
		if media, ok := body.Content[mediaType]; ok && media.Schema != nil {
			trigger.PayloadSchema = s.resolver.Simplify(media.Schema)
			break
		}
	}
	return trigger
}

// FromEvent builds a trigger with a generated name and description and no
// payload schema.
func FromEvent(event string) *Trigger {
	return &Trigger{
		ID:          naming.Identifier(event),
		Name:        naming.Title(event),
		Description: fmt.Sprintf("Triggered when a %s event occurs", event),
		Event:       event,
	}
}

// Merge appends a trigger for every event not already present in triggers,
// comparing event names exactly. Merging the same list again changes nothing.
// The input slice is not modified.
func Merge(triggers []*Trigger, events []string) []*Trigger {
	merged := make([]*Trigger, 0, len(triggers)+len(events))
	merged = append(merged, triggers...)

	ids := naming.NewUnique()
	present := make(map[string]bool, len(triggers))
	for _, trigger := range triggers {
		present[trigger.Event] = true
		ids.Claim(trigger.ID)
	}

	for _, event := range events {
		if event == "" || present[event] {
			continue
		}
		present[event] = true

		trigger := FromEvent(event)
		trigger.ID = ids.Claim(trigger.ID)
		merged = append(merged, trigger)
	}
	return merged
}

func describingOperation(item *spec.PathItem) *spec.Operation {
	for _, verb := range webhookVerbs {
		if op, ok := item.Operation(verb); ok {
			return op
		}
	}
	return nil
}
