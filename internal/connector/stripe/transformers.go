package stripe

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/secret"
)

// Stripe speaks form-encoded requests with bracketed nesting, not JSON.
// Field names here are Stripe's published contract.

// chargePayloadFrom builds the charge creation form. Stripe expects the
// amount in minor units and a lowercase currency code.
func chargePayloadFrom(rd *domain.PaymentsRouterData) (url.Values, error) {
	card, ok := rd.Request.PaymentMethodData.(domain.Card)
	if !ok {
		return nil, errs.NewNotImplemented(rd.Request.PaymentMethodData.MethodName())
	}

	payload := url.Values{}
	payload.Set("amount", strconv.FormatInt(rd.Amount, 10))
	payload.Set("currency", strings.ToLower(string(rd.Currency)))
	payload.Set("capture", strconv.FormatBool(rd.Request.Confirm))
	payload.Set("card[number]", card.Number.Expose())
	payload.Set("card[exp_month]", card.ExpMonth.Expose())
	payload.Set("card[exp_year]", card.ExpYear.Expose())
	payload.Set("card[cvc]", card.CVC.Expose())
	payload.Set("card[name]", card.HolderName.Expose())

	if rd.Description != nil {
		payload.Set("description", *rd.Description)
	} else {
		payload.Set("description", fmt.Sprintf("Charge for payment %s", rd.PaymentID))
	}
	return payload, nil
}

// capturePayloadFrom builds the capture form for an authorized charge.
func capturePayloadFrom(rd *domain.PaymentsRouterData) (url.Values, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return nil, errs.NewMissingRequiredField("connector_transaction_id")
	}
	payload := url.Values{}
	payload.Set("amount", strconv.FormatInt(rd.Amount, 10))
	return payload, nil
}

// refundPayloadFrom builds the refund creation form referencing the
// original charge.
func refundPayloadFrom(rd *domain.RefundsRouterData) (url.Values, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return nil, errs.NewMissingRequiredField("connector_transaction_id")
	}
	payload := url.Values{}
	payload.Set("charge", rd.Request.ConnectorTransactionID)
	payload.Set("amount", strconv.FormatInt(rd.Request.RefundAmount, 10))
	if rd.Request.Reason != nil {
		payload.Set("reason", *rd.Request.Reason)
	}
	return payload, nil
}

// chargeStatus is Stripe's charge status vocabulary.
type chargeStatus string

const (
	chargeStatusSucceeded chargeStatus = "succeeded"
	chargeStatusPending   chargeStatus = "pending"
	chargeStatusFailed    chargeStatus = "failed"
)

func (s chargeStatus) attemptStatus() (domain.AttemptStatus, error) {
	switch s {
	case chargeStatusSucceeded:
		return domain.AttemptStatusCharged, nil
	case chargeStatusPending:
		return domain.AttemptStatusPending, nil
	case chargeStatusFailed:
		return domain.AttemptStatusFailure, nil
	default:
		return "", fmt.Errorf("unrecognized stripe charge status %q", string(s))
	}
}

type chargeResponse struct {
	ID     string       `json:"id"`
	Status chargeStatus `json:"status"`
}

// wireRefundStatus is Stripe's refund status vocabulary.
type wireRefundStatus string

const (
	wireRefundSucceeded wireRefundStatus = "succeeded"
	wireRefundPending   wireRefundStatus = "pending"
	wireRefundFailed    wireRefundStatus = "failed"
)

func (s wireRefundStatus) domainStatus() (domain.RefundStatus, error) {
	switch s {
	case wireRefundSucceeded:
		return domain.RefundStatusSuccess, nil
	case wireRefundPending:
		return domain.RefundStatusPending, nil
	case wireRefundFailed:
		return domain.RefundStatusFailure, nil
	default:
		return "", fmt.Errorf("unrecognized stripe refund status %q", string(s))
	}
}

type refundWireResponse struct {
	ID     string           `json:"id"`
	Status wireRefundStatus `json:"status"`
}

// errorResponse is Stripe's error envelope.
type errorResponse struct {
	Error struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		Message     string `json:"message"`
		DeclineCode string `json:"decline_code"`
	} `json:"error"`
}

func (e errorResponse) toDomain(statusCode int) domain.ErrorResponse {
	code := e.Error.Code
	if e.Error.DeclineCode != "" {
		code = e.Error.DeclineCode
	}
	reason := e.Error.Type
	return domain.ErrorResponse{
		Code:       code,
		Message:    e.Error.Message,
		Reason:     &reason,
		StatusCode: statusCode,
	}
}

// authType holds the secret key Stripe's transport needs.
type authType struct {
	apiKey secret.Secret[string]
}

func authTypeFrom(auth domain.ConnectorAuthType) (authType, error) {
	headerKey, ok := auth.(domain.HeaderKey)
	if !ok {
		return authType{}, errs.NewFailedToObtainAuthType()
	}
	return authType{apiKey: headerKey.APIKey}, nil
}

// idempotencyKey derives a unique key per dispatch. Stripe caps the key
// at 255 characters.
func idempotencyKey(paymentID string, flow domain.Flow) string {
	key := fmt.Sprintf("%s-%s-%s", paymentID, flow, uuid.NewString())
	if len(key) > 255 {
		return key[:255]
	}
	return key
}
