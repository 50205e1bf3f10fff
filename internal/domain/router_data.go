package domain

import (
	"fmt"

	"github.com/yourorg/payment-router/internal/errs"
)

// TransactionReference is the domain representation of a connector-side
// transaction identifier.
type TransactionReference struct {
	ConnectorTransactionID string
}

// PaymentsRequestData is the connector-agnostic request payload for the
// payment flows (authorize, capture, psync).
type PaymentsRequestData struct {
	PaymentMethodData PaymentMethod
	Confirm           bool
	BrowserInfo       *BrowserInfo

	// ConnectorTransactionID references a previously created transaction
	// for capture and status-sync flows. Empty on authorize.
	ConnectorTransactionID string
}

// PaymentsResponseData is the successful outcome payload of a payment
// flow.
type PaymentsResponseData struct {
	ResourceID        TransactionReference
	ConnectorMetadata map[string]string
}

// RefundsRequestData is the connector-agnostic request payload for the
// refund flows (execute, sync).
type RefundsRequestData struct {
	RefundID               string
	ConnectorTransactionID string
	RefundAmount           int64
	Reason                 *string

	// ConnectorRefundID references a previously created refund for the
	// refund-sync flow. Empty on execute.
	ConnectorRefundID string
}

// RefundsResponseData is the successful outcome payload of a refund
// flow.
type RefundsResponseData struct {
	ConnectorRefundID string
	RefundStatus      RefundStatus
}

// ErrorResponse is the structured error outcome of an attempt: the
// connector's own error vocabulary reduced to code/message plus the
// transport status it arrived with.
type ErrorResponse struct {
	Code       string
	Message    string
	Reason     *string
	StatusCode int
}

// RouterData is the canonical envelope for one payment attempt, generic
// over the flow's request and response payload types. It is constructed
// once per attempt by the caller, passed by reference into the
// processing-step executor, mutated exactly once to attach the outcome,
// and handed back. It is never shared across concurrent invocations.
type RouterData[Req any, Resp any] struct {
	Flow          Flow
	MerchantID    string
	PaymentID     string
	ConnectorName ConnectorName

	Status   AttemptStatus
	Amount   int64
	Currency Currency

	Description *string
	ReturnURL   *string
	Address     PaymentAddress
	AuthType    AuthenticationType

	ConnectorAuth ConnectorAuthType

	Request Req

	// Outcome: at most one of Response/Error is ever set. Use the
	// Attach helpers; direct writes bypass the exactly-one rule.
	Response *Resp
	Error    *ErrorResponse
}

// PaymentsRouterData is the envelope instantiation for payment flows.
type PaymentsRouterData = RouterData[PaymentsRequestData, PaymentsResponseData]

// RefundsRouterData is the envelope instantiation for refund flows.
type RefundsRouterData = RouterData[RefundsRequestData, RefundsResponseData]

// Validate checks the caller-supplied invariants before dispatch.
func (rd *RouterData[Req, Resp]) Validate() *errs.ValidationError {
	if rd.MerchantID == "" {
		return errs.NewValidationMissingField("merchant_id")
	}
	if rd.PaymentID == "" {
		return errs.NewValidationMissingField("payment_id")
	}
	if rd.Amount < 0 {
		return errs.NewValidationIncorrectValue("amount")
	}
	if !rd.Currency.Valid() {
		return errs.NewValidationIncorrectValue("currency")
	}
	return nil
}

// OutcomeAttached reports whether a dispatch attempt has produced an
// outcome, successful or not.
func (rd *RouterData[Req, Resp]) OutcomeAttached() bool {
	return rd.Response != nil || rd.Error != nil
}

// AttachResponse records the successful outcome. It fails if any outcome
// is already attached; the envelope is mutated exactly once.
func (rd *RouterData[Req, Resp]) AttachResponse(resp Resp) error {
	if rd.OutcomeAttached() {
		return fmt.Errorf("outcome already attached to payment %s", rd.PaymentID)
	}
	rd.Response = &resp
	return nil
}

// AttachErrorResponse records the structured error outcome. It fails if
// any outcome is already attached.
func (rd *RouterData[Req, Resp]) AttachErrorResponse(er ErrorResponse) error {
	if rd.OutcomeAttached() {
		return fmt.Errorf("outcome already attached to payment %s", rd.PaymentID)
	}
	rd.Error = &er
	return nil
}
