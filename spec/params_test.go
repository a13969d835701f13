package spec

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestOperationParameters(t *testing.T) {
	doc := Test()
	r := NewResolver(doc, nil)

	// Shared path parameters come first.
	item, _ := doc.Paths.Get("/v1/widgets/{id}")
	op, _ := item.Operation(Get)
	params, err := r.OperationParameters(item, op)
	assert.NoError(t, err)
	assert.Len(t, params, 1)
	assert.Equal(t, "id", params[0].Name)

	// Deprecated parameters are dropped.
	item, _ = doc.Paths.Get("/v1/orders/{order_id}/refunds")
	op, _ = item.Operation(Post)
	params, err = r.OperationParameters(item, op)
	assert.NoError(t, err)
	assert.Len(t, params, 1)
	assert.Equal(t, "order_id", params[0].Name)
}

func TestOperationParameters_Override(t *testing.T) {
	r := NewResolver(&Document{}, nil)
	item := &PathItem{Parameters: []*Parameter{
		{In: ParameterPath, Name: "id", Description: "shared"},
		{In: ParameterQuery, Name: "expand"},
	}}

	// Same name and location replaces in place.
	params, err := r.OperationParameters(item, &Operation{Parameters: []*Parameter{
		{In: ParameterPath, Name: "id", Description: "own"},
		{In: ParameterHeader, Name: "expand"},
	}})
	assert.NoError(t, err)
	assert.Len(t, params, 3)
	assert.Equal(t, "own", params[0].Description)
	assert.Equal(t, ParameterQuery, params[1].In)
	assert.Equal(t, ParameterHeader, params[2].In)

	// A deprecated override removes the shared parameter.
	params, err = r.OperationParameters(item, &Operation{Parameters: []*Parameter{
		{In: ParameterPath, Name: "id", Deprecated: true},
	}})
	assert.NoError(t, err)
	assert.Len(t, params, 1)
	assert.Equal(t, "expand", params[0].Name)
}

func TestOperationParameters_References(t *testing.T) {
	doc := &Document{Components: Components{Parameters: map[string]*Parameter{
		"Limit": {In: ParameterQuery, Name: "limit", Schema: &Schema{Type: TypeInteger}},
	}}}
	r := NewResolver(doc, nil)

	params, err := r.OperationParameters(nil, &Operation{Parameters: []*Parameter{
		{Ref: "#/components/parameters/Limit"},
		{Ref: "#/components/parameters/Cursor"},
	}})
	assert.NoError(t, err)
	assert.Len(t, params, 1)
	assert.Equal(t, "limit", params[0].Name)
	assert.Len(t, r.Unresolved(), 1)
}

func TestOperationParameters_Malformed(t *testing.T) {
	r := NewResolver(&Document{}, nil)

	_, err := r.OperationParameters(nil, &Operation{Parameters: []*Parameter{
		{In: ParameterQuery},
	}})
	assert.Error(t, err)

	_, err = r.OperationParameters(nil, &Operation{Parameters: []*Parameter{
		{In: "body", Name: "payload"},
	}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "body")
}

func TestBuildParameterSchema(t *testing.T) {
	r := NewResolver(&Document{}, nil)

	// Handles a normal case
	{
		schema := r.BuildParameterSchema([]*Parameter{
			{
				In:   ParameterQuery,
				Name: "name",
				Schema: &Schema{
					Type: TypeString,
				},
			},
		})

		assert.Equal(t, TypeObject, schema.Type)
		assert.Equal(t, 1, schema.Properties.Len())
		assert.Equal(t, 0, len(schema.Required))

		paramSchema, _ := schema.Properties.Get("name")
		assert.Equal(t, TypeString, paramSchema.Type)
	}

	// A required parameter
	{
		schema := r.BuildParameterSchema([]*Parameter{
			{
				In:       ParameterPath,
				Name:     "id",
				Required: true,
				Schema: &Schema{
					Type: TypeString,
				},
			},
		})

		assert.Equal(t, []string{"id"}, schema.Required)
	}

	// A parameter with no schema
	{
		schema := r.BuildParameterSchema([]*Parameter{
			{
				In:   ParameterQuery,
				Name: "name",
			},
		})

		paramSchema, _ := schema.Properties.Get("name")
		assert.Equal(t, TypeObject, paramSchema.Type)
	}

	// The parameter's description wins over its schema's
	{
		schema := r.BuildParameterSchema([]*Parameter{
			{
				In:          ParameterQuery,
				Name:        "limit",
				Description: "Page size",
				Schema: &Schema{
					Type:        TypeInteger,
					Description: "An integer",
				},
			},
		})

		paramSchema, _ := schema.Properties.Get("limit")
		assert.Equal(t, "Page size", paramSchema.Description)
	}

	// No parameters still gives an empty object
	{
		schema := r.BuildParameterSchema(nil)
		assert.Equal(t, TypeObject, schema.Type)
		assert.Equal(t, 0, schema.Properties.Len())
		assert.Nil(t, schema.Required)
	}
}
