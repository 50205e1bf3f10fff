// Package stripe integrates the Stripe payment processor. Stripe's wire
// dialect differs from the JSON connectors: requests are form-encoded
// and authenticated with a bearer key plus a per-dispatch idempotency
// header.
package stripe

import (
	"encoding/json"
	"net/url"

	"github.com/yourorg/payment-router/internal/connector"
	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/services"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// Stripe is the connector implementation. Immutable after construction.
type Stripe struct {
	baseURL string
}

// New builds the connector; an empty baseURL selects the live API host.
func New(baseURL string) *Stripe {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Stripe{baseURL: baseURL}
}

func (s *Stripe) Name() domain.ConnectorName { return domain.ConnectorStripe }

func (s *Stripe) Authorize() connector.PaymentIntegration    { return &authorizeIntegration{s} }
func (s *Stripe) Capture() connector.PaymentIntegration      { return &captureIntegration{s} }
func (s *Stripe) PSync() connector.PaymentIntegration        { return &psyncIntegration{s} }
func (s *Stripe) RefundExecute() connector.RefundIntegration { return &refundExecuteIntegration{s} }
func (s *Stripe) RefundSync() connector.RefundIntegration    { return &refundSyncIntegration{s} }

func (s *Stripe) endpoint(segments ...string) (string, error) {
	joined, err := url.JoinPath(s.baseURL, segments...)
	if err != nil {
		return "", errs.NewFailedToObtainIntegrationURL(err)
	}
	return joined, nil
}

// formRequest assembles an authenticated form-encoded request with the
// per-dispatch idempotency key Stripe requires on mutating calls.
func (s *Stripe) formRequest(endpoint string, payload url.Values, rd interface {
	auth() domain.ConnectorAuthType
	paymentID() string
	flow() domain.Flow
}) (*services.Request, error) {
	at, err := authTypeFrom(rd.auth())
	if err != nil {
		return nil, err
	}
	req := services.NewRequest(services.MethodPost, endpoint)
	req.AddHeader("Authorization", "Bearer "+at.apiKey.Expose())
	req.AddHeader("Idempotency-Key", idempotencyKey(rd.paymentID(), rd.flow()))
	return req.SetBody([]byte(payload.Encode()), services.ContentTypeFormURLEncoded), nil
}

// envelopeRef adapts the two router-data instantiations to formRequest.
type paymentsRef struct{ rd *domain.PaymentsRouterData }

func (r paymentsRef) auth() domain.ConnectorAuthType { return r.rd.ConnectorAuth }
func (r paymentsRef) paymentID() string              { return r.rd.PaymentID }
func (r paymentsRef) flow() domain.Flow              { return r.rd.Flow }

type refundsRef struct{ rd *domain.RefundsRouterData }

func (r refundsRef) auth() domain.ConnectorAuthType { return r.rd.ConnectorAuth }
func (r refundsRef) paymentID() string              { return r.rd.PaymentID }
func (r refundsRef) flow() domain.Flow              { return r.rd.Flow }

func (s *Stripe) getRequest(endpoint string, auth domain.ConnectorAuthType) (*services.Request, error) {
	at, err := authTypeFrom(auth)
	if err != nil {
		return nil, err
	}
	req := services.NewRequest(services.MethodGet, endpoint)
	req.AddHeader("Authorization", "Bearer "+at.apiKey.Expose())
	return req, nil
}

func (s *Stripe) decodeErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	var wire errorResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return domain.ErrorResponse{}, errs.NewResponseDeserializationFailed(err)
	}
	return wire.toDomain(resp.StatusCode), nil
}

func handleChargeResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	var wire chargeResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return errs.NewResponseDeserializationFailed(err)
	}
	status, err := wire.Status.attemptStatus()
	if err != nil {
		return errs.NewParsingError("stripe charge response", err)
	}
	rd.Status = status
	if err := rd.AttachResponse(domain.PaymentsResponseData{
		ResourceID: domain.TransactionReference{ConnectorTransactionID: wire.ID},
	}); err != nil {
		return errs.NewResponseHandlingFailed(err)
	}
	return nil
}

func handleRefundResponse(rd *domain.RefundsRouterData, resp *services.Response) error {
	var wire refundWireResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return errs.NewResponseDeserializationFailed(err)
	}
	status, err := wire.Status.domainStatus()
	if err != nil {
		return errs.NewParsingError("stripe refund response", err)
	}
	if err := rd.AttachResponse(domain.RefundsResponseData{
		ConnectorRefundID: wire.ID,
		RefundStatus:      status,
	}); err != nil {
		return errs.NewResponseHandlingFailed(err)
	}
	return nil
}

type authorizeIntegration struct{ *Stripe }

func (i *authorizeIntegration) BuildRequest(rd *domain.PaymentsRouterData) (*services.Request, error) {
	payload, err := chargePayloadFrom(rd)
	if err != nil {
		return nil, err
	}
	endpoint, err := i.endpoint("charges")
	if err != nil {
		return nil, err
	}
	return i.formRequest(endpoint, payload, paymentsRef{rd})
}

func (i *authorizeIntegration) HandleResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	return handleChargeResponse(rd, resp)
}

func (i *authorizeIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type captureIntegration struct{ *Stripe }

func (i *captureIntegration) BuildRequest(rd *domain.PaymentsRouterData) (*services.Request, error) {
	payload, err := capturePayloadFrom(rd)
	if err != nil {
		return nil, err
	}
	endpoint, err := i.endpoint("charges", rd.Request.ConnectorTransactionID, "capture")
	if err != nil {
		return nil, err
	}
	return i.formRequest(endpoint, payload, paymentsRef{rd})
}

func (i *captureIntegration) HandleResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	return handleChargeResponse(rd, resp)
}

func (i *captureIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type psyncIntegration struct{ *Stripe }

func (i *psyncIntegration) BuildRequest(rd *domain.PaymentsRouterData) (*services.Request, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return nil, errs.NewMissingRequiredField("connector_transaction_id")
	}
	endpoint, err := i.endpoint("charges", rd.Request.ConnectorTransactionID)
	if err != nil {
		return nil, err
	}
	return i.getRequest(endpoint, rd.ConnectorAuth)
}

func (i *psyncIntegration) HandleResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	return handleChargeResponse(rd, resp)
}

func (i *psyncIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type refundExecuteIntegration struct{ *Stripe }

func (i *refundExecuteIntegration) BuildRequest(rd *domain.RefundsRouterData) (*services.Request, error) {
	payload, err := refundPayloadFrom(rd)
	if err != nil {
		return nil, err
	}
	endpoint, err := i.endpoint("refunds")
	if err != nil {
		return nil, err
	}
	return i.formRequest(endpoint, payload, refundsRef{rd})
}

func (i *refundExecuteIntegration) HandleResponse(rd *domain.RefundsRouterData, resp *services.Response) error {
	return handleRefundResponse(rd, resp)
}

func (i *refundExecuteIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type refundSyncIntegration struct{ *Stripe }

func (i *refundSyncIntegration) BuildRequest(rd *domain.RefundsRouterData) (*services.Request, error) {
	if rd.Request.ConnectorRefundID == "" {
		return nil, errs.NewMissingRequiredField("connector_refund_id")
	}
	endpoint, err := i.endpoint("refunds", rd.Request.ConnectorRefundID)
	if err != nil {
		return nil, err
	}
	return i.getRequest(endpoint, rd.ConnectorAuth)
}

func (i *refundSyncIntegration) HandleResponse(rd *domain.RefundsRouterData, resp *services.Response) error {
	return handleRefundResponse(rd, resp)
}

func (i *refundSyncIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}
