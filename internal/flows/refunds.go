package flows

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
)

// RefundExecuteRequest creates a refund against a settled transaction.
type RefundExecuteRequest struct {
	MerchantID             string
	ConnectorName          domain.ConnectorName
	PaymentID              string
	ConnectorTransactionID string
	RefundAmount           int64
	Currency               domain.Currency
	Reason                 *string
}

// RefundSyncRequest fetches the connector-side status of a refund.
type RefundSyncRequest struct {
	MerchantID        string
	ConnectorName     domain.ConnectorName
	PaymentID         string
	RefundID          string
	ConnectorRefundID string
}

// RefundExecute runs the refund creation flow. A fresh refund identifier
// is minted per attempt.
func (s *Service) RefundExecute(ctx context.Context, req RefundExecuteRequest) (*domain.RefundsRouterData, error) {
	rd := &domain.RefundsRouterData{
		Flow:          domain.FlowRefundExecute,
		MerchantID:    req.MerchantID,
		PaymentID:     req.PaymentID,
		ConnectorName: req.ConnectorName,
		Amount:        req.RefundAmount,
		Currency:      req.Currency,
		Request: domain.RefundsRequestData{
			RefundID:               fmt.Sprintf("ref_%s", uuid.NewString()),
			ConnectorTransactionID: req.ConnectorTransactionID,
			RefundAmount:           req.RefundAmount,
			Reason:                 req.Reason,
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

	return dispatch(ctx, s, conn.RefundExecute(), rd)
}

// RefundSync runs the refund status-sync flow.
func (s *Service) RefundSync(ctx context.Context, req RefundSyncRequest) (*domain.RefundsRouterData, error) {
	rd := &domain.RefundsRouterData{
		Flow:          domain.FlowRefundSync,
		MerchantID:    req.MerchantID,
		PaymentID:     req.PaymentID,
		ConnectorName: req.ConnectorName,
		Request: domain.RefundsRequestData{
			RefundID:          req.RefundID,
			ConnectorRefundID: req.ConnectorRefundID,
		},
	}
	if req.MerchantID == "" {
		return rd, errs.FromValidation(errs.NewValidationMissingField("merchant_id"))
	}
	if req.ConnectorRefundID == "" {
		return rd, errs.FromValidation(errs.NewValidationMissingField("connector_refund_id"))
	}

	conn, auth, routerErr := s.resolve(ctx, req.MerchantID, req.ConnectorName)
	if routerErr != nil {
		return rd, routerErr
	}
	rd.ConnectorAuth = auth

	return dispatch(ctx, s, conn.RefundSync(), rd)
}
