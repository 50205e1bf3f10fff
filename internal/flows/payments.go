package flows

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
)

// AuthorizeRequest is the caller-facing input to the authorize flow.
type AuthorizeRequest struct {
	MerchantID    string
	ConnectorName domain.ConnectorName
	Amount        int64
	Currency      domain.Currency
	Description   *string
	ReturnURL     *string
	Confirm       bool

	PaymentMethod domain.PaymentMethod
	Address       domain.PaymentAddress
	BrowserInfo   *domain.BrowserInfo
	AuthType      domain.AuthenticationType
}

// CaptureRequest captures a previously authorized transaction.
type CaptureRequest struct {
	MerchantID             string
	ConnectorName          domain.ConnectorName
	PaymentID              string
	ConnectorTransactionID string
	Amount                 int64
	Currency               domain.Currency
}

// PSyncRequest fetches the connector-side status of a transaction.
type PSyncRequest struct {
	MerchantID             string
	ConnectorName          domain.ConnectorName
	PaymentID              string
	ConnectorTransactionID string
}

// Authorize runs the authorize flow. A fresh payment identifier is
// minted per attempt.
func (s *Service) Authorize(ctx context.Context, req AuthorizeRequest) (*domain.PaymentsRouterData, error) {
	rd := &domain.PaymentsRouterData{
		Flow:          domain.FlowAuthorize,
		MerchantID:    req.MerchantID,
		PaymentID:     fmt.Sprintf("pay_%s", uuid.NewString()),
		ConnectorName: req.ConnectorName,
		Status:        domain.AttemptStatusStarted,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   req.Description,
		ReturnURL:     req.ReturnURL,
		Address:       req.Address,
		AuthType:      req.AuthType,
		Request: domain.PaymentsRequestData{
			PaymentMethodData: req.PaymentMethod,
			Confirm:           req.Confirm,
			BrowserInfo:       req.BrowserInfo,
		},
	}
	if err := rd.Validate(); err != nil {
		return rd, errs.FromValidation(err)
	}

	conn, auth, routerErr := s.resolve(ctx, req.MerchantID, req.ConnectorName)
	if routerErr != nil {
		return rd, routerErr
	}
	rd.ConnectorAuth = auth

	return dispatch(ctx, s, conn.Authorize(), rd)
}

// Capture runs the capture flow against an authorized transaction.
func (s *Service) Capture(ctx context.Context, req CaptureRequest) (*domain.PaymentsRouterData, error) {
	rd := &domain.PaymentsRouterData{
		Flow:          domain.FlowCapture,
		MerchantID:    req.MerchantID,
		PaymentID:     req.PaymentID,
		ConnectorName: req.ConnectorName,
		Status:        domain.AttemptStatusAuthorizing,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Request: domain.PaymentsRequestData{
			ConnectorTransactionID: req.ConnectorTransactionID,
		},
	}
	if err := rd.Validate(); err != nil {
		return rd, errs.FromValidation(err)
	}
	if req.ConnectorTransactionID == "" {
		return rd, errs.FromValidation(errs.NewValidationMissingField("connector_transaction_id"))
	}

	conn, auth, routerErr := s.resolve(ctx, req.MerchantID, req.ConnectorName)
	if routerErr != nil {
		return rd, routerErr
	}
	rd.ConnectorAuth = auth

	return dispatch(ctx, s, conn.Capture(), rd)
}

// PSync runs the payment status-sync flow.
func (s *Service) PSync(ctx context.Context, req PSyncRequest) (*domain.PaymentsRouterData, error) {
	rd := &domain.PaymentsRouterData{
		Flow:          domain.FlowPSync,
		MerchantID:    req.MerchantID,
		PaymentID:     req.PaymentID,
		ConnectorName: req.ConnectorName,
		Status:        domain.AttemptStatusPending,
		Request: domain.PaymentsRequestData{
			ConnectorTransactionID: req.ConnectorTransactionID,
		},
	}
	// Sync carries no amount or currency, so the envelope-wide Validate
	// does not apply; the identifying fields are checked directly.
	if req.MerchantID == "" {
		return rd, errs.FromValidation(errs.NewValidationMissingField("merchant_id"))
	}
	if req.PaymentID == "" {
		return rd, errs.FromValidation(errs.NewValidationMissingField("payment_id"))
	}
	if req.ConnectorTransactionID == "" {
		return rd, errs.FromValidation(errs.NewValidationMissingField("connector_transaction_id"))
	}

	conn, auth, routerErr := s.resolve(ctx, req.MerchantID, req.ConnectorName)
	if routerErr != nil {
		return rd, routerErr
	}
	rd.ConnectorAuth = auth

	return dispatch(ctx, s, conn.PSync(), rd)
}
