// Package flows coordinates one payment operation end to end: validate
// the caller's input, resolve the connector and its credentials, run the
// processing-step executor, and lift any failure into the top-level
// error taxonomy. This is the only layer that attaches structured error
// outcomes to the envelope after a failed attempt.
package flows

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/yourorg/payment-router/internal/connector"
	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/policy"
	"github.com/yourorg/payment-router/internal/services"
	"github.com/yourorg/payment-router/internal/storage"
)

// Service executes payment and refund flows against registered
// connectors.
type Service struct {
	registry *connector.Registry
	state    *services.AppState
	creds    storage.CredentialStore
	retry    *policy.RetryPolicy
}

// NewService wires the flow coordinator.
func NewService(registry *connector.Registry, state *services.AppState, creds storage.CredentialStore, retry *policy.RetryPolicy) *Service {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if state == nil {
		panic("app state cannot be nil")
	}
	if creds == nil {
		panic("credential store cannot be nil")
	}
	if retry == nil {
		panic("retry policy cannot be nil")
	}
	return &Service{registry: registry, state: state, creds: creds, retry: retry}
}

// lift converts any lower-layer error into the top-level RouterError.
// Each source type has exactly one conversion; an error that matches
// none of them classifies as unexpected.
func lift(err error) *errs.RouterError {
	var routerErr *errs.RouterError
	if errors.As(err, &routerErr) {
		return routerErr
	}
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return errs.FromValidation(validationErr)
	}
	var connErr *errs.ConnectorError
	if errors.As(err, &connErr) {
		return errs.FromConnector(connErr)
	}
	var apiErr *errs.ApiClientError
	if errors.As(err, &apiErr) {
		return errs.FromApiClient(apiErr)
	}
	var parseErr *errs.ParsingError
	if errors.As(err, &parseErr) {
		return errs.FromParsing(parseErr)
	}
	var storageErr *errs.StorageError
	if errors.As(err, &storageErr) {
		return errs.FromStorage(storageErr)
	}
	return &errs.RouterError{Kind: errs.KindUnexpected, Message: err.Error()}
}

// errorOutcome reduces a failed attempt's error into the structured
// outcome attached to the envelope.
func errorOutcome(err error) domain.ErrorResponse {
	var apiErr *errs.ApiClientError
	if errors.As(err, &apiErr) {
		return domain.ErrorResponse{
			Code:       string(apiErr.Kind),
			Message:    apiErr.Error(),
			StatusCode: apiErr.StatusCode,
		}
	}
	var connErr *errs.ConnectorError
	if errors.As(err, &connErr) {
		return domain.ErrorResponse{
			Code:    string(connErr.Kind),
			Message: connErr.Error(),
		}
	}
	return domain.ErrorResponse{
		Code:    string(errs.KindUnexpected),
		Message: err.Error(),
	}
}

// attemptFrom extracts the retry-relevant facts from a failed dispatch.
func attemptFrom(flow domain.Flow, name domain.ConnectorName, attemptNumber int, err error) policy.Attempt {
	attempt := policy.Attempt{
		Flow:          flow,
		ConnectorName: name,
		AttemptNumber: attemptNumber,
	}
	var apiErr *errs.ApiClientError
	if errors.As(err, &apiErr) {
		attempt.StatusCode = apiErr.StatusCode
		attempt.ErrorKind = string(apiErr.Kind)
	}
	return attempt
}

// dispatch runs the executor with the retry loop. Retries happen only
// when the policy allows them, which in turn only considers idempotent
// flows. After the final failed attempt the structured error outcome is
// attached to the envelope before the error propagates.
func dispatch[Req any, Resp any](
	ctx context.Context,
	s *Service,
	integration services.Integration[Req, Resp],
	rd *domain.RouterData[Req, Resp],
) (*domain.RouterData[Req, Resp], error) {
	for attemptNumber := 1; ; attemptNumber++ {
		_, err := services.ExecuteConnectorProcessingStep(ctx, s.state, integration, rd, services.Trigger())
		if err == nil {
			return rd, nil
		}

		retry, policyErr := s.retry.ShouldRetry(attemptFrom(rd.Flow, rd.ConnectorName, attemptNumber, err))
		if policyErr != nil {
			s.state.Logger.Error("retry policy evaluation failed", zap.Error(policyErr))
			retry = false
		}
		// A definitive outcome (a processor decline) is never re-dispatched.
		if rd.OutcomeAttached() {
			retry = false
		}
		if retry {
			s.state.Logger.Info("retrying connector dispatch",
				zap.String("connector", string(rd.ConnectorName)),
				zap.String("flow", string(rd.Flow)),
				zap.Int("attempt", attemptNumber),
			)
			continue
		}

		if !rd.OutcomeAttached() {
			if attachErr := rd.AttachErrorResponse(errorOutcome(err)); attachErr != nil {
				s.state.Logger.Error("failed to attach error outcome", zap.Error(attachErr))
			}
		}
		return rd, lift(err)
	}
}

// resolve validates the envelope and looks up the connector and its
// credentials. Lookup failures abort before any transport activity.
func (s *Service) resolve(ctx context.Context, merchantID string, name domain.ConnectorName) (connector.Connector, domain.ConnectorAuthType, *errs.RouterError) {
	conn, err := s.registry.Lookup(name)
	if err != nil {
		return nil, nil, lift(err)
	}
	auth, err := s.creds.ConnectorAuth(ctx, merchantID, name)
	if err != nil {
		return nil, nil, lift(err)
	}
	return conn, auth, nil
}
