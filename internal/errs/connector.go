// Package errs defines the layered error taxonomy of the router:
// integration-level connector errors, transport-level API client errors,
// persistence-layer storage errors, and the top-level router error with
// its deterministic HTTP status mapping. Lower-layer errors are lifted
// into the next layer through explicit, per-pair conversion functions
// and are always preserved as the wrapped cause.
package errs

import "fmt"

// ConnectorErrorKind is the closed set of integration-level failures.
type ConnectorErrorKind string

const (
	MissingRequiredField              ConnectorErrorKind = "missing_required_field"
	NotImplemented                    ConnectorErrorKind = "not_implemented"
	FailedToObtainIntegrationURL      ConnectorErrorKind = "failed_to_obtain_integration_url"
	FailedToObtainAuthType            ConnectorErrorKind = "failed_to_obtain_auth_type"
	FailedToObtainPreferredConnector  ConnectorErrorKind = "failed_to_obtain_preferred_connector"
	InvalidConnectorName              ConnectorErrorKind = "invalid_connector_name"
	RequestEncodingFailed             ConnectorErrorKind = "request_encoding_failed"
	ResponseDeserializationFailed     ConnectorErrorKind = "response_deserialization_failed"
	ResponseHandlingFailed            ConnectorErrorKind = "response_handling_failed"
	ProcessingStepFailed              ConnectorErrorKind = "processing_step_failed"
	UnexpectedResponse                ConnectorErrorKind = "unexpected_response"
	RoutingRulesParsingError          ConnectorErrorKind = "routing_rules_parsing_error"
	WebhooksNotImplemented            ConnectorErrorKind = "webhooks_not_implemented"
	WebhookBodyDecodingFailed         ConnectorErrorKind = "webhook_body_decoding_failed"
	WebhookSignatureNotFound          ConnectorErrorKind = "webhook_signature_not_found"
	WebhookSourceVerificationFailed   ConnectorErrorKind = "webhook_source_verification_failed"
	WebhookVerificationSecretNotFound ConnectorErrorKind = "webhook_verification_secret_not_found"
	WebhookReferenceIDNotFound        ConnectorErrorKind = "webhook_reference_id_not_found"
)

// ConnectorError is an integration-level failure raised while building a
// connector request or reducing a connector response. It carries enough
// structured context (field name, offending detail, raw body) to be
// actionable without re-parsing the message string.
type ConnectorError struct {
	Kind      ConnectorErrorKind
	FieldName string // set for MissingRequiredField
	Detail    string // offending method/name for NotImplemented, InvalidConnectorName
	Body      []byte // raw connector body for ProcessingStepFailed, UnexpectedResponse
	cause     error
}

func (e *ConnectorError) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("missing required field: %s", e.FieldName)
	case NotImplemented:
		return fmt.Sprintf("this step has not been implemented for: %s", e.Detail)
	case FailedToObtainIntegrationURL:
		return "error while obtaining URL for the integration"
	case FailedToObtainAuthType:
		return "failed to obtain authentication type"
	case FailedToObtainPreferredConnector:
		return "failed to obtain preferred connector from merchant account"
	case InvalidConnectorName:
		return fmt.Sprintf("an invalid connector name was provided: %s", e.Detail)
	case RequestEncodingFailed:
		return "failed to encode connector request"
	case ResponseDeserializationFailed:
		return "failed to deserialize connector response"
	case ResponseHandlingFailed:
		return "failed to handle connector response"
	case ProcessingStepFailed:
		return "failed to execute a processing step"
	case UnexpectedResponse:
		return "the connector returned an unexpected response"
	case RoutingRulesParsingError:
		return "failed to parse custom routing rules from merchant account"
	case WebhooksNotImplemented:
		return "webhooks not implemented for this connector"
	case WebhookBodyDecodingFailed:
		return "failed to decode webhook event body"
	case WebhookSignatureNotFound:
		return "signature not found for incoming webhook"
	case WebhookSourceVerificationFailed:
		return "failed to verify webhook source"
	case WebhookVerificationSecretNotFound:
		return "could not find merchant secret for incoming webhook source verification"
	case WebhookReferenceIDNotFound:
		return "incoming webhook object reference ID not found"
	default:
		return fmt.Sprintf("connector error: %s", e.Kind)
	}
}

func (e *ConnectorError) Unwrap() error { return e.cause }

// NewMissingRequiredField names exactly the absent field the target
// connector mandates. The transformer fails closed rather than emitting
// a request the connector would silently misinterpret.
func NewMissingRequiredField(fieldName string) *ConnectorError {
	return &ConnectorError{Kind: MissingRequiredField, FieldName: fieldName}
}

// NewNotImplemented rejects an unsupported payment method or feature,
// naming the offending variant.
func NewNotImplemented(what string) *ConnectorError {
	return &ConnectorError{Kind: NotImplemented, Detail: what}
}

func NewInvalidConnectorName(name string) *ConnectorError {
	return &ConnectorError{Kind: InvalidConnectorName, Detail: name}
}

func NewFailedToObtainAuthType() *ConnectorError {
	return &ConnectorError{Kind: FailedToObtainAuthType}
}

func NewFailedToObtainIntegrationURL(cause error) *ConnectorError {
	return &ConnectorError{Kind: FailedToObtainIntegrationURL, cause: cause}
}

func NewRequestEncodingFailed(cause error) *ConnectorError {
	return &ConnectorError{Kind: RequestEncodingFailed, cause: cause}
}

func NewResponseDeserializationFailed(cause error) *ConnectorError {
	return &ConnectorError{Kind: ResponseDeserializationFailed, cause: cause}
}

func NewResponseHandlingFailed(cause error) *ConnectorError {
	return &ConnectorError{Kind: ResponseHandlingFailed, cause: cause}
}

func NewProcessingStepFailed(body []byte) *ConnectorError {
	return &ConnectorError{Kind: ProcessingStepFailed, Body: body}
}

func NewUnexpectedResponse(body []byte) *ConnectorError {
	return &ConnectorError{Kind: UnexpectedResponse, Body: body}
}

func NewRoutingRulesParsingError(ruleName string, cause error) *ConnectorError {
	return &ConnectorError{Kind: RoutingRulesParsingError, Detail: ruleName, cause: cause}
}
