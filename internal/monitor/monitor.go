// Package monitor validates inbound API payloads against JSON schemas
// before they reach the flow layer.
package monitor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ContractMonitor validates incoming requests against a JSON schema.
type ContractMonitor struct {
	schema *gojsonschema.Schema
}

// NewContractMonitor compiles a schema from its raw bytes. Schemas are
// embedded in the binary, so a compile failure is a programming error
// surfaced at startup.
func NewContractMonitor(schemaBytes []byte) (*ContractMonitor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("error compiling schema: %w", err)
	}
	return &ContractMonitor{schema: schema}, nil
}

// Validate checks the given request body against the compiled schema.
// It returns true if valid, or false and a list of validation errors.
func (cm *ContractMonitor) Validate(requestBody []byte) (bool, []string, error) {
	result, err := cm.schema.Validate(gojsonschema.NewBytesLoader(requestBody))
	if err != nil {
		return false, nil, fmt.Errorf("error during validation: %w", err)
	}

	if result.Valid() {
		return true, nil, nil
	}

	var errors []string
	for _, desc := range result.Errors() {
		errors = append(errors, desc.String())
	}
	return false, errors, nil
}

// FormatErrors joins validation error strings for a response body.
func FormatErrors(validationErrors []string) string {
	if len(validationErrors) == 0 {
		return ""
	}
	return "Validation errors: " + strings.Join(validationErrors, "; ")
}
