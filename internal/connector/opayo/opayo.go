// Package opayo integrates the Opayo (Sage Pay) payment processor. It
// owns the bidirectional mapping between the domain transaction model
// and Opayo's JSON dialect for the authorize, capture, payment-sync,
// refund and refund-sync flows.
package opayo

import (
	"encoding/json"
	"net/url"

	"github.com/yourorg/payment-router/internal/connector"
	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/services"
)

const defaultBaseURL = "https://pi-test.sagepay.com/api/v1"

// Opayo is the connector implementation. It carries only immutable
// configuration and is safe for concurrent use.
type Opayo struct {
	baseURL string
}

// New builds the connector; an empty baseURL selects the sandbox
// environment.
func New(baseURL string) *Opayo {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Opayo{baseURL: baseURL}
}

func (o *Opayo) Name() domain.ConnectorName { return domain.ConnectorOpayo }

func (o *Opayo) Authorize() connector.PaymentIntegration    { return &authorizeIntegration{o} }
func (o *Opayo) Capture() connector.PaymentIntegration      { return &captureIntegration{o} }
func (o *Opayo) PSync() connector.PaymentIntegration        { return &psyncIntegration{o} }
func (o *Opayo) RefundExecute() connector.RefundIntegration { return &refundExecuteIntegration{o} }
func (o *Opayo) RefundSync() connector.RefundIntegration    { return &refundSyncIntegration{o} }

// endpoint joins the base URL with path segments, surfacing a malformed
// base as FailedToObtainIntegrationURL.
func (o *Opayo) endpoint(segments ...string) (string, error) {
	joined, err := url.JoinPath(o.baseURL, segments...)
	if err != nil {
		return "", errs.NewFailedToObtainIntegrationURL(err)
	}
	return joined, nil
}

// authorizedRequest assembles a request with Opayo's auth header from the
// merchant's configured credential.
func (o *Opayo) authorizedRequest(method services.Method, endpoint string, auth domain.ConnectorAuthType) (*services.Request, error) {
	at, err := authTypeFrom(auth)
	if err != nil {
		return nil, err
	}
	req := services.NewRequest(method, endpoint)
	req.AddHeader("Authorization", "Basic "+at.apiKey.Expose())
	return req, nil
}

// decodeErrorResponse reduces Opayo's error envelope for diagnostics on
// non-2xx responses.
func (o *Opayo) decodeErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	var wire errorResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return domain.ErrorResponse{}, errs.NewResponseDeserializationFailed(err)
	}
	return wire.toDomain(resp.StatusCode), nil
}

// handlePaymentsResponse reduces a 2xx payments body into the envelope's
// outcome. Every wire status is mapped before it crosses this boundary.
func handlePaymentsResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	var wire paymentsResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return errs.NewResponseDeserializationFailed(err)
	}
	status, err := wire.Status.attemptStatus()
	if err != nil {
		return errs.NewParsingError("opayo payments response", err)
	}
	rd.Status = status
	if err := rd.AttachResponse(domain.PaymentsResponseData{
		ResourceID: domain.TransactionReference{ConnectorTransactionID: wire.TransactionID},
	}); err != nil {
		return errs.NewResponseHandlingFailed(err)
	}
	return nil
}

func handleRefundsResponse(rd *domain.RefundsRouterData, resp *services.Response) error {
	var wire refundResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return errs.NewResponseDeserializationFailed(err)
	}
	status, err := wire.Status.domainStatus()
	if err != nil {
		return errs.NewParsingError("opayo refunds response", err)
	}
	if err := rd.AttachResponse(domain.RefundsResponseData{
		ConnectorRefundID: wire.TransactionID,
		RefundStatus:      status,
	}); err != nil {
		return errs.NewResponseHandlingFailed(err)
	}
	return nil
}

type authorizeIntegration struct{ *Opayo }

func (i *authorizeIntegration) BuildRequest(rd *domain.PaymentsRouterData) (*services.Request, error) {
	wireReq, err := paymentsRequestFrom(rd)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, errs.NewRequestEncodingFailed(err)
	}
	endpoint, err := i.endpoint("transactions")
	if err != nil {
		return nil, err
	}
	req, err := i.authorizedRequest(services.MethodPost, endpoint, rd.ConnectorAuth)
	if err != nil {
		return nil, err
	}
	return req.SetBody(body, services.ContentTypeJSON), nil
}

func (i *authorizeIntegration) HandleResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	return handlePaymentsResponse(rd, resp)
}

func (i *authorizeIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type captureIntegration struct{ *Opayo }

func (i *captureIntegration) BuildRequest(rd *domain.PaymentsRouterData) (*services.Request, error) {
	wireReq, err := captureRequestFrom(rd)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, errs.NewRequestEncodingFailed(err)
	}
	endpoint, err := i.endpoint("transactions", rd.Request.ConnectorTransactionID, "instructions")
	if err != nil {
		return nil, err
	}
	req, err := i.authorizedRequest(services.MethodPost, endpoint, rd.ConnectorAuth)
	if err != nil {
		return nil, err
	}
	return req.SetBody(body, services.ContentTypeJSON), nil
}

func (i *captureIntegration) HandleResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	return handlePaymentsResponse(rd, resp)
}

func (i *captureIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type psyncIntegration struct{ *Opayo }

func (i *psyncIntegration) BuildRequest(rd *domain.PaymentsRouterData) (*services.Request, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return nil, errs.NewMissingRequiredField("connector_transaction_id")
	}
	endpoint, err := i.endpoint("transactions", rd.Request.ConnectorTransactionID)
	if err != nil {
		return nil, err
	}
	return i.authorizedRequest(services.MethodGet, endpoint, rd.ConnectorAuth)
}

func (i *psyncIntegration) HandleResponse(rd *domain.PaymentsRouterData, resp *services.Response) error {
	return handlePaymentsResponse(rd, resp)
}

func (i *psyncIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type refundExecuteIntegration struct{ *Opayo }

func (i *refundExecuteIntegration) BuildRequest(rd *domain.RefundsRouterData) (*services.Request, error) {
	wireReq, err := refundRequestFrom(rd)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, errs.NewRequestEncodingFailed(err)
	}
	endpoint, err := i.endpoint("transactions")
	if err != nil {
		return nil, err
	}
	req, err := i.authorizedRequest(services.MethodPost, endpoint, rd.ConnectorAuth)
	if err != nil {
		return nil, err
	}
	return req.SetBody(body, services.ContentTypeJSON), nil
}

func (i *refundExecuteIntegration) HandleResponse(rd *domain.RefundsRouterData, resp *services.Response) error {
	return handleRefundsResponse(rd, resp)
}

func (i *refundExecuteIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}

type refundSyncIntegration struct{ *Opayo }

func (i *refundSyncIntegration) BuildRequest(rd *domain.RefundsRouterData) (*services.Request, error) {
	if rd.Request.ConnectorRefundID == "" {
		return nil, errs.NewMissingRequiredField("connector_refund_id")
	}
	endpoint, err := i.endpoint("transactions", rd.Request.ConnectorRefundID)
	if err != nil {
		return nil, err
	}
	return i.authorizedRequest(services.MethodGet, endpoint, rd.ConnectorAuth)
}

func (i *refundSyncIntegration) HandleResponse(rd *domain.RefundsRouterData, resp *services.Response) error {
	return handleRefundsResponse(rd, resp)
}

func (i *refundSyncIntegration) ErrorResponse(resp *services.Response) (domain.ErrorResponse, error) {
	return i.decodeErrorResponse(resp)
}
