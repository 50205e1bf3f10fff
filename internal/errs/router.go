package errs

import (
	"fmt"
	"net/http"
)

// RouterErrorKind is the closed set of top-level, externally visible
// error classes. The HTTP edge derives the response status solely from
// this kind, never from the error text.
type RouterErrorKind string

const (
	KindAuthentication            RouterErrorKind = "authentication"
	KindAuthorization             RouterErrorKind = "authorization"
	KindParsing                   RouterErrorKind = "parsing"
	KindValidation                RouterErrorKind = "validation"
	KindNotImplementedByConnector RouterErrorKind = "not_implemented_by_connector"
	KindDatabase                  RouterErrorKind = "database"
	KindEncryption                RouterErrorKind = "encryption"
	KindConfiguration             RouterErrorKind = "configuration"
	KindMetrics                   RouterErrorKind = "metrics"
	KindIO                        RouterErrorKind = "io"
	KindUnexpected                RouterErrorKind = "unexpected"
)

// RouterError is the top-level error handed to the HTTP edge. It always
// wraps the originating lower-layer error as its cause.
type RouterError struct {
	Kind    RouterErrorKind
	Message string
	cause   error
}

func (e *RouterError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("{ error_type: %s, error_description: %s }", e.Kind, e.Message)
	}
	return fmt.Sprintf("{ error_type: %s }", e.Kind)
}

func (e *RouterError) Unwrap() error { return e.cause }

// StatusCode maps the error kind to a transport status: client-caused
// kinds map to 400, everything else to 500.
func (e *RouterError) StatusCode() int {
	switch e.Kind {
	case KindParsing, KindAuthentication, KindAuthorization, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// The conversions below are written once per layer pair, explicitly, so
// that no lift can silently apply to an unintended type. Each preserves
// the original error as the cause.

// FromParsing lifts a parsing error into the top-level error.
func FromParsing(err *ParsingError) *RouterError {
	return &RouterError{Kind: KindParsing, Message: err.Error(), cause: err}
}

// FromValidation lifts a validation error into the top-level error.
func FromValidation(err *ValidationError) *RouterError {
	return &RouterError{Kind: KindValidation, Message: err.Error(), cause: err}
}

// FromStorage lifts a storage error into the top-level error.
func FromStorage(err *StorageError) *RouterError {
	return &RouterError{Kind: KindDatabase, Message: err.Error(), cause: err}
}

// FromConnector lifts an integration-level error into the top-level
// error. Caller-correctable kinds classify as validation; an
// unimplemented feature is the connector integration's gap, not the
// caller's.
func FromConnector(err *ConnectorError) *RouterError {
	kind := KindUnexpected
	switch err.Kind {
	case MissingRequiredField, InvalidConnectorName, FailedToObtainAuthType:
		kind = KindValidation
	case NotImplemented, WebhooksNotImplemented:
		kind = KindNotImplementedByConnector
	case ResponseDeserializationFailed, ResponseHandlingFailed:
		kind = KindParsing
	}
	return &RouterError{Kind: kind, Message: err.Error(), cause: err}
}

// FromApiClient lifts a transport-level error into the top-level error.
// Transport failures are never the merchant's fault.
func FromApiClient(err *ApiClientError) *RouterError {
	return &RouterError{Kind: KindUnexpected, Message: err.Error(), cause: err}
}

// FromConfiguration lifts a configuration loading failure.
func FromConfiguration(err error) *RouterError {
	return &RouterError{Kind: KindConfiguration, Message: err.Error(), cause: err}
}

// FromIO lifts an I/O failure.
func FromIO(err error) *RouterError {
	return &RouterError{Kind: KindIO, Message: err.Error(), cause: err}
}
