package errs

import "fmt"

// ApiClientErrorKind is the closed set of transport-level failures:
// client construction, request encoding/sending, response decoding, and
// one kind per HTTP status class the connectors are observed to return.
type ApiClientErrorKind string

const (
	HeaderMapConstructionFailed ApiClientErrorKind = "header_map_construction_failed"
	InvalidProxyConfiguration   ApiClientErrorKind = "invalid_proxy_configuration"
	ClientConstructionFailed    ApiClientErrorKind = "client_construction_failed"
	URLEncodingFailed           ApiClientErrorKind = "url_encoding_failed"
	RequestNotSent              ApiClientErrorKind = "request_not_sent"
	ResponseDecodingFailed      ApiClientErrorKind = "response_decoding_failed"

	BadRequestReceived          ApiClientErrorKind = "bad_request_received"
	UnauthorizedReceived        ApiClientErrorKind = "unauthorized_received"
	ForbiddenReceived           ApiClientErrorKind = "forbidden_received"
	NotFoundReceived            ApiClientErrorKind = "not_found_received"
	MethodNotAllowedReceived    ApiClientErrorKind = "method_not_allowed_received"
	RequestTimeoutReceived      ApiClientErrorKind = "request_timeout_received"
	UnprocessableEntityReceived ApiClientErrorKind = "unprocessable_entity_received"
	TooManyRequestsReceived     ApiClientErrorKind = "too_many_requests_received"

	InternalServerErrorReceived ApiClientErrorKind = "internal_server_error_received"
	BadGatewayReceived          ApiClientErrorKind = "bad_gateway_received"
	ServiceUnavailableReceived  ApiClientErrorKind = "service_unavailable_received"
	GatewayTimeoutReceived      ApiClientErrorKind = "gateway_timeout_received"
	UnexpectedServerResponse    ApiClientErrorKind = "unexpected_server_response"
)

// ApiClientError is a transport-level failure. Body, when present, holds
// the raw response body for diagnostics; it is never required to
// interpret the error.
type ApiClientError struct {
	Kind ApiClientErrorKind
	Body []byte

	// StatusCode is the HTTP status the classification came from, zero
	// when the failure happened before a response arrived.
	StatusCode int

	cause error
}

func (e *ApiClientError) Error() string {
	switch e.Kind {
	case HeaderMapConstructionFailed:
		return "header map construction failed"
	case InvalidProxyConfiguration:
		return "invalid proxy configuration"
	case ClientConstructionFailed:
		return "client construction failed"
	case URLEncodingFailed:
		return "URL encoding of request payload failed"
	case RequestNotSent:
		return "failed to send request to connector"
	case ResponseDecodingFailed:
		return "failed to decode response"
	case BadRequestReceived:
		return "server responded with Bad Request"
	case UnauthorizedReceived:
		return "server responded with Unauthorized"
	case ForbiddenReceived:
		return "server responded with Forbidden"
	case NotFoundReceived:
		return "server responded with Not Found"
	case MethodNotAllowedReceived:
		return "server responded with Method Not Allowed"
	case RequestTimeoutReceived:
		return "server responded with Request Timeout"
	case UnprocessableEntityReceived:
		return "server responded with Unprocessable Entity"
	case TooManyRequestsReceived:
		return "server responded with Too Many Requests"
	case InternalServerErrorReceived:
		return "server responded with Internal Server Error"
	case BadGatewayReceived:
		return "server responded with Bad Gateway"
	case ServiceUnavailableReceived:
		return "server responded with Service Unavailable"
	case GatewayTimeoutReceived:
		return "server responded with Gateway Timeout"
	case UnexpectedServerResponse:
		return "server responded with unexpected response"
	default:
		return fmt.Sprintf("api client error: %s", e.Kind)
	}
}

func (e *ApiClientError) Unwrap() error { return e.cause }

func NewApiClientError(kind ApiClientErrorKind, cause error) *ApiClientError {
	return &ApiClientError{Kind: kind, cause: cause}
}

// FromStatusCode classifies a non-2xx HTTP status into its transport
// error kind, retaining the raw body for diagnostics. Unlisted statuses
// classify as UnexpectedServerResponse; they are never treated as
// success.
func FromStatusCode(statusCode int, body []byte) *ApiClientError {
	kind := UnexpectedServerResponse
	switch statusCode {
	case 400:
		kind = BadRequestReceived
	case 401:
		kind = UnauthorizedReceived
	case 403:
		kind = ForbiddenReceived
	case 404:
		kind = NotFoundReceived
	case 405:
		kind = MethodNotAllowedReceived
	case 408:
		kind = RequestTimeoutReceived
	case 422:
		kind = UnprocessableEntityReceived
	case 429:
		kind = TooManyRequestsReceived
	case 500:
		kind = InternalServerErrorReceived
	case 502:
		kind = BadGatewayReceived
	case 503:
		kind = ServiceUnavailableReceived
	case 504:
		kind = GatewayTimeoutReceived
	}
	return &ApiClientError{Kind: kind, Body: body, StatusCode: statusCode}
}
