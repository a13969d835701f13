package spec

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lestrrat-go/jsschema"
	"github.com/lestrrat-go/jsval"
	"github.com/lestrrat-go/jsval/builder"
	"github.com/yougroupteam/adaptergen/embedded"
)

var (
	contractOnce      sync.Once
	contractValidator *jsval.JSVal
	contractErr       error
)

// ValidateDocument checks raw JSON against the input contract: a version
// string, `info` with a title and version, and a `paths` object. Webhooks and
// components are optional but must be objects when present.
func ValidateDocument(raw []byte) error {
	validator, err := documentValidator()
	if err != nil {
		return err
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := validator.Validate(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// documentValidator builds the validator for the embedded contract once; the
// resulting JSVal is safe to share between concurrent runs.
func documentValidator() (*jsval.JSVal, error) {
	contractOnce.Do(func() {
		contractValidator, contractErr = GetValidatorForJSONSchema(embedded.DocumentContract)
	})
	return contractValidator, contractErr
}

// GetValidatorForJSONSchema gets a validator for a JSON Schema document
// represented as JSON.
func GetValidatorForJSONSchema(data []byte) (*jsval.JSVal, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	jsonSchema := schema.New()
	err := jsonSchema.Extract(fields)
	if err != nil {
		return nil, err
	}

	validatorBuilder := builder.New()
	validator, err := validatorBuilder.Build(jsonSchema)
	if err != nil {
		return nil, err
	}

	return validator, nil
}
