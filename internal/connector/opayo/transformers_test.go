package opayo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/secret"
)

func strPtr(s string) *string { return &s }

func secretPtr(s string) *secret.Secret[string] {
	sec := secret.New(s)
	return &sec
}

func testCard() domain.Card {
	return domain.Card{
		Number:     secret.New("4929000000006"),
		ExpMonth:   secret.New("03"),
		ExpYear:    secret.New("2027"),
		HolderName: secret.New("John Doe"),
		CVC:        secret.New("123"),
		Token: &domain.CardToken{
			MerchantSessionKey: secret.New("sess_abc123"),
			CardIdentifier:     "card_xyz789",
		},
	}
}

func testBillingAddress() *domain.Address {
	return &domain.Address{
		Line1:     secretPtr("88 The Street"),
		City:      strPtr("London"),
		Country:   strPtr("GB"),
		Zip:       secretPtr("412"),
		FirstName: secretPtr("John"),
		LastName:  secretPtr("Doe"),
	}
}

func testBrowserInfo() *domain.BrowserInfo {
	return &domain.BrowserInfo{
		IPAddress:         strPtr("192.0.2.10"),
		AcceptHeader:      "text/html",
		Language:          "en-GB",
		UserAgent:         "Mozilla/5.0",
		JavaScriptEnabled: true,
		ScreenWidth:       480,
		ScreenHeight:      720,
	}
}

func authorizeRouterData() *domain.PaymentsRouterData {
	return &domain.PaymentsRouterData{
		Flow:          domain.FlowAuthorize,
		MerchantID:    "merchant_1",
		PaymentID:     "pay_123",
		ConnectorName: domain.ConnectorOpayo,
		Status:        domain.AttemptStatusStarted,
		Amount:        100,
		Currency:      domain.CurrencyUSD,
		Description:   strPtr("This is a test"),
		ReturnURL:     strPtr("https://merchant.example/return"),
		Address:       domain.PaymentAddress{Billing: testBillingAddress()},
		AuthType:      domain.AuthenticationNoThreeDS,
		ConnectorAuth: domain.HeaderKey{APIKey: secret.New("opayo_key")},
		Request: domain.PaymentsRequestData{
			PaymentMethodData: testCard(),
			Confirm:           true,
			BrowserInfo:       testBrowserInfo(),
		},
	}
}

func TestPaymentsRequestHappyPath(t *testing.T) {
	wireReq, err := paymentsRequestFrom(authorizeRouterData())
	require.NoError(t, err)

	assert.Equal(t, "Payment", wireReq.TransactionType)
	assert.Equal(t, "pay_123", wireReq.VendorTxCode)
	assert.Equal(t, int64(100), wireReq.Amount)
	assert.Equal(t, "USD", wireReq.Currency)
	assert.Equal(t, "This is a test", wireReq.Description)
	assert.Equal(t, "UseMSPSetting", wireReq.Apply3DSecure)
	assert.Equal(t, "card_xyz789", wireReq.PaymentMethod.Card.CardIdentifier)

	sca := wireReq.StrongCustomerAuthentication
	assert.Equal(t, "https://merchant.example/return", sca.NotificationURL)
	assert.Equal(t, "192.0.2.10", sca.BrowserIP)
	assert.Equal(t, "GoodsAndServicePurchase", sca.TransType)
	assert.Equal(t, "Large", sca.ChallengeWindowSize)
}

func TestPaymentsRequestWireFieldCasing(t *testing.T) {
	wireReq, err := paymentsRequestFrom(authorizeRouterData())
	require.NoError(t, err)
	body, err := json.Marshal(wireReq)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))
	for _, key := range []string{
		"transactionType", "paymentMethod", "vendorTxCode", "amount", "currency",
		"description", "customerFirstName", "customerLastName", "billingAddress",
		"apply3DSecure", "strongCustomerAuthentication",
	} {
		assert.Contains(t, fields, key)
	}

	var billing map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(fields["billingAddress"], &billing))
	assert.Contains(t, billing, "address1")
	assert.Contains(t, billing, "postalCode")

	// Secrets serialize their raw value on the wire; Opayo needs it.
	assert.JSONEq(t, `"88 The Street"`, string(billing["address1"]))
}

func TestPaymentsRequestIsIdempotent(t *testing.T) {
	rd := authorizeRouterData()
	first, err := paymentsRequestFrom(rd)
	require.NoError(t, err)
	second, err := paymentsRequestFrom(rd)
	require.NoError(t, err)

	firstBody, err := json.Marshal(first)
	require.NoError(t, err)
	secondBody, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstBody, secondBody)
}

func TestPaymentsRequestMissingFields(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(rd *domain.PaymentsRouterData)
		fieldName string
	}{
		{"description", func(rd *domain.PaymentsRouterData) { rd.Description = nil }, "description"},
		{"billing address", func(rd *domain.PaymentsRouterData) { rd.Address.Billing = nil }, "billing_address"},
		{"address line", func(rd *domain.PaymentsRouterData) { rd.Address.Billing.Line1 = nil }, "address1"},
		{"city", func(rd *domain.PaymentsRouterData) { rd.Address.Billing.City = nil }, "city"},
		{"country", func(rd *domain.PaymentsRouterData) { rd.Address.Billing.Country = nil }, "country"},
		{"zip", func(rd *domain.PaymentsRouterData) { rd.Address.Billing.Zip = nil }, "zip"},
		{"first name", func(rd *domain.PaymentsRouterData) { rd.Address.Billing.FirstName = nil }, "first_name"},
		{"last name", func(rd *domain.PaymentsRouterData) { rd.Address.Billing.LastName = nil }, "last_name"},
		{"browser info", func(rd *domain.PaymentsRouterData) { rd.Request.BrowserInfo = nil }, "browser_info"},
		{"browser ip", func(rd *domain.PaymentsRouterData) { rd.Request.BrowserInfo.IPAddress = nil }, "browserIP"},
		{"return url", func(rd *domain.PaymentsRouterData) { rd.ReturnURL = nil }, "notification_url"},
		{"session key", func(rd *domain.PaymentsRouterData) {
			card := testCard()
			card.Token = nil
			rd.Request.PaymentMethodData = card
		}, "merchant_session_key"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rd := authorizeRouterData()
			tc.mutate(rd)

			wireReq, err := paymentsRequestFrom(rd)
			assert.Nil(t, wireReq, "no partial wire request on failure")

			var connErr *errs.ConnectorError
			require.True(t, errors.As(err, &connErr))
			assert.Equal(t, errs.MissingRequiredField, connErr.Kind)
			assert.Equal(t, tc.fieldName, connErr.FieldName)
		})
	}
}

func TestPaymentsRequestRejectsWallet(t *testing.T) {
	rd := authorizeRouterData()
	rd.Request.PaymentMethodData = domain.Wallet{Provider: "applepay", Token: secret.New("tok")}

	_, err := paymentsRequestFrom(rd)
	var connErr *errs.ConnectorError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, errs.NotImplemented, connErr.Kind)
	assert.Contains(t, connErr.Detail, "applepay")
}

func TestWindowSizeBuckets(t *testing.T) {
	cases := []struct {
		width uint32
		want  string
	}{
		{0, "Small"}, {250, "Small"},
		{251, "Medium"}, {390, "Medium"},
		{391, "Large"}, {500, "Large"},
		{501, "ExtraLarge"}, {600, "ExtraLarge"},
		{601, "FullScreen"}, {1920, "FullScreen"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, windowSize(tc.width), "width %d", tc.width)
	}
}

func TestPaymentStatusMappingIsTotal(t *testing.T) {
	want := map[paymentStatus]domain.AttemptStatus{
		paymentStatusSucceeded:  domain.AttemptStatusCharged,
		paymentStatusFailed:     domain.AttemptStatusFailure,
		paymentStatusProcessing: domain.AttemptStatusAuthorizing,
	}
	seen := make(map[domain.AttemptStatus]paymentStatus)
	for wire, expected := range want {
		got, err := wire.attemptStatus()
		require.NoError(t, err)
		assert.Equal(t, expected, got)
		if prev, dup := seen[got]; dup {
			t.Fatalf("domain status %s reachable from both %s and %s", got, prev, wire)
		}
		seen[got] = wire
	}
}

func TestPaymentStatusRejectsUnrecognizedValue(t *testing.T) {
	_, err := paymentStatus("Settled").attemptStatus()
	assert.Error(t, err, "an unmapped wire value must never be guessed")
}

func TestRefundStatusMapping(t *testing.T) {
	cases := map[refundStatus]domain.RefundStatus{
		refundStatusSucceeded:  domain.RefundStatusSuccess,
		refundStatusFailed:     domain.RefundStatusFailure,
		refundStatusProcessing: domain.RefundStatusPending,
	}
	for wire, expected := range cases {
		got, err := wire.domainStatus()
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
	_, err := refundStatus("Voided").domainStatus()
	assert.Error(t, err)
}

func TestRefundRequestFrom(t *testing.T) {
	rd := &domain.RefundsRouterData{
		Flow:       domain.FlowRefundExecute,
		MerchantID: "merchant_1",
		PaymentID:  "pay_123",
		Amount:     100,
		Currency:   domain.CurrencyUSD,
		Request: domain.RefundsRequestData{
			RefundID:               "ref_1",
			ConnectorTransactionID: "T6569400-1516-0A3F-E3FA-7F222CC79221",
			RefundAmount:           40,
		},
	}
	wireReq, err := refundRequestFrom(rd)
	require.NoError(t, err)
	assert.Equal(t, "Refund", wireReq.TransactionType)
	assert.Equal(t, "ref_1", wireReq.VendorTxCode)
	assert.Equal(t, "T6569400-1516-0A3F-E3FA-7F222CC79221", wireReq.ReferenceTransactionID)
	assert.Equal(t, int64(40), wireReq.Amount)
	assert.Equal(t, "Refund", wireReq.Description)

	rd.Request.ConnectorTransactionID = ""
	_, err = refundRequestFrom(rd)
	var connErr *errs.ConnectorError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "connector_transaction_id", connErr.FieldName)
}

func TestAuthTypeFrom(t *testing.T) {
	at, err := authTypeFrom(domain.HeaderKey{APIKey: secret.New("integration_key")})
	require.NoError(t, err)
	assert.Equal(t, "integration_key", at.apiKey.Expose())

	_, err = authTypeFrom(domain.BodyKey{APIKey: secret.New("a"), Key1: secret.New("b")})
	var connErr *errs.ConnectorError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, errs.FailedToObtainAuthType, connErr.Kind)
}
