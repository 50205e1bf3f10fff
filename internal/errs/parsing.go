package errs

import "fmt"

// ParsingError is raised while reducing a connector wire response into
// the domain model: an undecodable body or an unrecognized wire value
// that must not be guessed into a domain status.
type ParsingError struct {
	Of    string // what was being parsed, e.g. "opayo payments response"
	cause error
}

func (e *ParsingError) Error() string {
	if e.Of == "" {
		return "parsing error"
	}
	return fmt.Sprintf("error while parsing %s", e.Of)
}

func (e *ParsingError) Unwrap() error { return e.cause }

func NewParsingError(of string, cause error) *ParsingError {
	return &ParsingError{Of: of, cause: cause}
}

// ValidationErrorKind is the closed set of request validation failures.
type ValidationErrorKind string

const (
	ValidationMissingRequiredField ValidationErrorKind = "missing_required_field"
	ValidationIncorrectValue       ValidationErrorKind = "incorrect_value_provided"
)

// ValidationError names the field a caller-supplied value failed on.
type ValidationError struct {
	Kind      ValidationErrorKind
	FieldName string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ValidationMissingRequiredField:
		return fmt.Sprintf("missing required field: %s", e.FieldName)
	case ValidationIncorrectValue:
		return fmt.Sprintf("incorrect value provided for field: %s", e.FieldName)
	default:
		return fmt.Sprintf("validation error: %s", e.Kind)
	}
}

func NewValidationMissingField(fieldName string) *ValidationError {
	return &ValidationError{Kind: ValidationMissingRequiredField, FieldName: fieldName}
}

func NewValidationIncorrectValue(fieldName string) *ValidationError {
	return &ValidationError{Kind: ValidationIncorrectValue, FieldName: fieldName}
}
