package embedded

import (
	_ "embed"
)

// DocumentContract is the JSON Schema (draft-04) every input OpenAPI document
// must satisfy before any adapter is generated from it.
//
//go:embed openapi/contract.schema.json
var DocumentContract []byte

// Providers is the built-in provider metadata table: authentication fields,
// rate limits and webhook signing details that can't be read from a spec.
//
//go:embed providers/providers.yaml
var Providers []byte
