package stripe

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/secret"
	"github.com/yourorg/payment-router/internal/services"
)

func chargeRouterData() *domain.PaymentsRouterData {
	desc := "Custom description"
	return &domain.PaymentsRouterData{
		Flow:          domain.FlowAuthorize,
		MerchantID:    "merchant_1",
		PaymentID:     "pay_42",
		ConnectorName: domain.ConnectorStripe,
		Status:        domain.AttemptStatusStarted,
		Amount:        12345,
		Currency:      domain.CurrencyUSD,
		Description:   &desc,
		ConnectorAuth: domain.HeaderKey{APIKey: secret.New("sk_test_key")},
		Request: domain.PaymentsRequestData{
			Confirm: true,
			PaymentMethodData: domain.Card{
				Number:     secret.New("4242424242424242"),
				ExpMonth:   secret.New("10"),
				ExpYear:    secret.New("2025"),
				HolderName: secret.New("John Doe"),
				CVC:        secret.New("999"),
			},
		},
	}
}

func TestChargePayloadFrom(t *testing.T) {
	payload, err := chargePayloadFrom(chargeRouterData())
	require.NoError(t, err)

	assert.Equal(t, "12345", payload.Get("amount"))
	assert.Equal(t, "usd", payload.Get("currency"))
	assert.Equal(t, "true", payload.Get("capture"))
	assert.Equal(t, "4242424242424242", payload.Get("card[number]"))
	assert.Equal(t, "999", payload.Get("card[cvc]"))
	assert.Equal(t, "Custom description", payload.Get("description"))
}

func TestChargePayloadDefaultsDescription(t *testing.T) {
	rd := chargeRouterData()
	rd.Description = nil
	payload, err := chargePayloadFrom(rd)
	require.NoError(t, err)
	assert.Equal(t, "Charge for payment pay_42", payload.Get("description"))
}

func TestChargePayloadRejectsWallet(t *testing.T) {
	rd := chargeRouterData()
	rd.Request.PaymentMethodData = domain.Wallet{Provider: "googlepay", Token: secret.New("tok")}

	_, err := chargePayloadFrom(rd)
	var connErr *errs.ConnectorError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, errs.NotImplemented, connErr.Kind)
}

func TestAuthorizeBuildRequest(t *testing.T) {
	req, err := New("").Authorize().BuildRequest(chargeRouterData())
	require.NoError(t, err)

	assert.Equal(t, services.MethodPost, req.Method)
	assert.Equal(t, defaultBaseURL+"/charges", req.URL)
	assert.Equal(t, "Bearer sk_test_key", req.Headers["Authorization"])
	assert.NotEmpty(t, req.Headers["Idempotency-Key"])
	assert.Equal(t, services.ContentTypeFormURLEncoded, req.ContentType)

	form, err := url.ParseQuery(string(req.Body))
	require.NoError(t, err)
	assert.Equal(t, "12345", form.Get("amount"))
}

func TestIdempotencyKeysAreUniquePerDispatch(t *testing.T) {
	a := idempotencyKey("pay_1", domain.FlowAuthorize)
	b := idempotencyKey("pay_1", domain.FlowAuthorize)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), 255)
}

func TestChargeStatusMappingIsTotal(t *testing.T) {
	cases := map[chargeStatus]domain.AttemptStatus{
		chargeStatusSucceeded: domain.AttemptStatusCharged,
		chargeStatusPending:   domain.AttemptStatusPending,
		chargeStatusFailed:    domain.AttemptStatusFailure,
	}
	for wire, expected := range cases {
		got, err := wire.attemptStatus()
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
	_, err := chargeStatus("disputed").attemptStatus()
	assert.Error(t, err)
}

func TestHandleChargeResponseRoundTrip(t *testing.T) {
	rd := chargeRouterData()
	resp := &services.Response{StatusCode: 200, Body: []byte(`{"id":"ch_1ABC","status":"succeeded"}`)}

	require.NoError(t, New("").Authorize().HandleResponse(rd, resp))
	assert.Equal(t, domain.AttemptStatusCharged, rd.Status)
	require.NotNil(t, rd.Response)
	assert.Equal(t, "ch_1ABC", rd.Response.ResourceID.ConnectorTransactionID)
}

func TestErrorEnvelopePrefersDeclineCode(t *testing.T) {
	body := []byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined.","decline_code":"insufficient_funds"}}`)
	decoded, err := New("").Authorize().ErrorResponse(&services.Response{StatusCode: 402, Body: body})
	require.NoError(t, err)

	assert.Equal(t, "insufficient_funds", decoded.Code)
	assert.Equal(t, "Your card was declined.", decoded.Message)
	require.NotNil(t, decoded.Reason)
	assert.Equal(t, "card_error", *decoded.Reason)
}

func TestRefundBuildersAndMapping(t *testing.T) {
	rd := &domain.RefundsRouterData{
		Flow:          domain.FlowRefundExecute,
		MerchantID:    "merchant_1",
		PaymentID:     "pay_42",
		Amount:        12345,
		Currency:      domain.CurrencyUSD,
		ConnectorAuth: domain.HeaderKey{APIKey: secret.New("sk_test_key")},
		Request: domain.RefundsRequestData{
			RefundID:               "ref_9",
			ConnectorTransactionID: "ch_1ABC",
			RefundAmount:           500,
		},
	}

	req, err := New("").RefundExecute().BuildRequest(rd)
	require.NoError(t, err)
	form, err := url.ParseQuery(string(req.Body))
	require.NoError(t, err)
	assert.Equal(t, "ch_1ABC", form.Get("charge"))
	assert.Equal(t, "500", form.Get("amount"))

	resp := &services.Response{StatusCode: 200, Body: []byte(`{"id":"re_77","status":"pending"}`)}
	require.NoError(t, New("").RefundExecute().HandleResponse(rd, resp))
	require.NotNil(t, rd.Response)
	assert.Equal(t, domain.RefundStatusPending, rd.Response.RefundStatus)
	assert.Equal(t, "re_77", rd.Response.ConnectorRefundID)
}

func TestAuthTypeMismatch(t *testing.T) {
	rd := chargeRouterData()
	rd.ConnectorAuth = domain.BodyKey{}

	_, err := New("").Authorize().BuildRequest(rd)
	var connErr *errs.ConnectorError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, errs.FailedToObtainAuthType, connErr.Kind)
}
