package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/metrics"
)

// Integration is the single contract the processing-step executor
// depends on. One implementation exists per (connector, flow) pair; the
// executor never depends on a concrete connector type.
type Integration[Req any, Resp any] interface {
	// BuildRequest produces a transport-ready request from the envelope,
	// failing closed with a ConnectorError when a required domain field
	// is absent or the payment method is unsupported.
	BuildRequest(rd *domain.RouterData[Req, Resp]) (*Request, error)

	// HandleResponse reduces a 2xx transport response into the
	// envelope's outcome, mapping the connector's status vocabulary onto
	// the domain enumeration. Failures are ParsingErrors or
	// ConnectorErrors, never guesses.
	HandleResponse(rd *domain.RouterData[Req, Resp], resp *Response) error

	// ErrorResponse decodes the connector's own error-response shape
	// from a non-2xx body for diagnostics.
	ErrorResponse(resp *Response) (domain.ErrorResponse, error)
}

// CallConnectorAction controls whether a processing step performs real
// network I/O. Trigger dispatches over the transport collaborator;
// HandleResponseBody skips the dispatch and reduces an injected response
// instead, for dry runs and tests. The remaining steps execute the same
// way in both modes.
type CallConnectorAction struct {
	trigger    bool
	statusCode int
	body       []byte
}

// Trigger performs the network call.
func Trigger() CallConnectorAction {
	return CallConnectorAction{trigger: true}
}

// HandleResponseBody injects a response instead of dispatching.
func HandleResponseBody(statusCode int, body []byte) CallConnectorAction {
	return CallConnectorAction{statusCode: statusCode, body: body}
}

// AppState is the explicitly constructed process-wide context passed by
// reference into the executor. It is built once at startup and read-only
// afterwards, so it is safely shared across unbounded concurrent
// invocations.
type AppState struct {
	Client  HTTPClient
	Logger  *zap.Logger
	Metrics *metrics.ConnectorMetrics
}

// NewAppState wires the executor's collaborators.
func NewAppState(client HTTPClient, logger *zap.Logger, m *metrics.ConnectorMetrics) *AppState {
	if client == nil {
		panic("http client cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if m == nil {
		panic("metrics cannot be nil")
	}
	return &AppState{Client: client, Logger: logger, Metrics: m}
}

// isProcessorDecline reports whether a status carries a definitive
// processor verdict rather than a transient transport condition.
func isProcessorDecline(statusCode int) bool {
	return statusCode >= 400 && statusCode < 500 &&
		statusCode != 408 && statusCode != 429
}

// ExecuteConnectorProcessingStep runs one flow execution against one
// connector: build request, dispatch, classify the transport status,
// reduce the response into the envelope's outcome. Errors at any stage
// abort immediately and propagate unmodified in kind; the executor never
// retries and leaves no partial outcome attached. The executor holds no
// state across invocations.
func ExecuteConnectorProcessingStep[Req any, Resp any](
	ctx context.Context,
	state *AppState,
	integration Integration[Req, Resp],
	rd *domain.RouterData[Req, Resp],
	action CallConnectorAction,
) (*domain.RouterData[Req, Resp], error) {
	tracer := otel.Tracer("services")
	ctx, span := tracer.Start(ctx, "ExecuteConnectorProcessingStep")
	defer span.End()
	span.SetAttributes(
		attribute.String("connector", string(rd.ConnectorName)),
		attribute.String("flow", string(rd.Flow)),
		attribute.String("payment_id", rd.PaymentID),
	)

	started := time.Now()
	record := func(outcome string) {
		state.Metrics.RecordCall(string(rd.ConnectorName), string(rd.Flow), outcome, time.Since(started))
	}

	req, err := integration.BuildRequest(rd)
	if err != nil {
		record("build_error")
		return rd, err
	}

	var resp *Response
	if action.trigger {
		resp, err = state.Client.Send(ctx, req)
		if err != nil {
			record("transport_error")
			return rd, err
		}
	} else {
		resp = &Response{StatusCode: action.statusCode, Body: action.body}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Decode the connector's own error shape. A 4xx decline is a
		// definitive processor outcome and is attached as the envelope's
		// structured error; timeout and throttle statuses are transport
		// conditions and leave the outcome unset. Either way the failure
		// surfaces as a typed transport error.
		if decoded, decodeErr := integration.ErrorResponse(resp); decodeErr == nil {
			state.Logger.Warn("connector returned error response",
				zap.String("connector", string(rd.ConnectorName)),
				zap.String("flow", string(rd.Flow)),
				zap.Int("status", resp.StatusCode),
				zap.String("connector_code", decoded.Code),
				zap.String("connector_message", decoded.Message),
			)
			if isProcessorDecline(resp.StatusCode) {
				if attachErr := rd.AttachErrorResponse(decoded); attachErr != nil {
					record("handle_error")
					return rd, errs.NewResponseHandlingFailed(attachErr)
				}
			}
		}
		record("http_error")
		return rd, errs.FromStatusCode(resp.StatusCode, resp.Body)
	}

	if err := integration.HandleResponse(rd, resp); err != nil {
		record("parse_error")
		return rd, err
	}
	if !rd.OutcomeAttached() {
		record("empty_outcome")
		return rd, errs.NewResponseHandlingFailed(errors.New("integration attached no outcome"))
	}

	record("ok")
	return rd, nil
}
