package spec

import (
	"errors"
	"fmt"
)

var parameterLocations = map[string]bool{
	ParameterCookie: true,
	ParameterHeader: true,
	ParameterPath:   true,
	ParameterQuery:  true,
}

// OperationParameters returns the parameters that apply to op: those shared
// by the path item first, then the operation's own. An operation parameter
// with the same name and location as a shared one replaces it in place.
//
// References are followed. Deprecated parameters and references that can't
// be resolved are dropped. A parameter without a name or with an unknown
// location makes the whole operation malformed.
func (r *Resolver) OperationParameters(item *PathItem, op *Operation) ([]*Parameter, error) {
	var params []*Parameter
	index := make(map[string]int)

	add := func(raw *Parameter) error {
		param, ok := r.Parameter(raw)
		if !ok {
			return nil
		}
		if param.Name == "" {
			return errors.New("parameter without a name")
		}
		if !parameterLocations[param.In] {
			return fmt.Errorf("parameter %q has unknown location %q", param.Name, param.In)
		}

		key := param.In + ":" + param.Name
		if param.Deprecated {
			param = nil
		}
		if i, ok := index[key]; ok {
			params[i] = param
			return nil
		}
		if param == nil {
			return nil
		}
		index[key] = len(params)
		params = append(params, param)
		return nil
	}

	if item != nil {
		for _, param := range item.Parameters {
			if err := add(param); err != nil {
				return nil, err
			}
		}
	}
	if op != nil {
		for _, param := range op.Parameters {
			if err := add(param); err != nil {
				return nil, err
			}
		}
	}

	kept := params[:0]
	for _, param := range params {
		if param != nil {
			kept = append(kept, param)
		}
	}
	return kept, nil
}

// BuildParameterSchema builds an object schema with one property per
// parameter, carrying the parameter's simplified schema and description.
// Unlike request bodies, OpenAPI puts parameters in a different, non-JSON
// schema part of an operation, so they have to be folded in by hand.
func (r *Resolver) BuildParameterSchema(params []*Parameter) *Schema {
	schema := &Schema{
		Properties: NewProperties(),
		Type:       TypeObject,
	}

	for _, param := range params {
		paramSchema := r.Simplify(param.Schema)
		if param.Description != "" {
			paramSchema.Description = param.Description
		}
		schema.Properties.Set(param.Name, paramSchema)

		if param.Required {
			schema.Required = AppendUnique(schema.Required, param.Name)
		}
	}

	return schema
}
