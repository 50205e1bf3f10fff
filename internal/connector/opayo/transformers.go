package opayo

import (
	"fmt"
	"strconv"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/secret"
)

// Wire shapes below follow Opayo's published API exactly, including the
// camelCase field casing. They are produced and consumed only inside
// this package.

type cardSession struct {
	MerchantSessionKey secret.Secret[string] `json:"merchantSessionKey"`
	CardIdentifier     string                `json:"cardIdentifier"`
	Reusable           bool                  `json:"reusable"`
	Save               bool                  `json:"save"`
}

type cardPaymentMethod struct {
	Card cardSession `json:"card"`
}

type billingAddress struct {
	Address1   secret.Secret[string] `json:"address1"`
	City       string                `json:"city"`
	Country    string                `json:"country"`
	PostalCode secret.Secret[string] `json:"postalCode"`
}

type customerAuthentication struct {
	NotificationURL          string `json:"notificationURL"`
	BrowserIP                string `json:"browserIP"`
	BrowserAcceptHeader      string `json:"browserAcceptHeader"`
	BrowserJavascriptEnabled bool   `json:"browserJavascriptEnabled"`
	BrowserLanguage          string `json:"browserLanguage"`
	BrowserUserAgent         string `json:"browserUserAgent"`
	ChallengeWindowSize      string `json:"challengeWindowSize"`
	TransType                string `json:"transType"`
}

type paymentsRequest struct {
	TransactionType              string                 `json:"transactionType"`
	PaymentMethod                cardPaymentMethod      `json:"paymentMethod"`
	VendorTxCode                 string                 `json:"vendorTxCode"`
	Amount                       int64                  `json:"amount"`
	Currency                     string                 `json:"currency"`
	Description                  string                 `json:"description"`
	CustomerFirstName            secret.Secret[string]  `json:"customerFirstName"`
	CustomerLastName             secret.Secret[string]  `json:"customerLastName"`
	BillingAddress               billingAddress         `json:"billingAddress"`
	Apply3DSecure                string                 `json:"apply3DSecure"`
	StrongCustomerAuthentication customerAuthentication `json:"strongCustomerAuthentication"`
}

type captureRequest struct {
	InstructionType string `json:"instructionType"`
	Amount          int64  `json:"amount"`
}

type refundRequest struct {
	TransactionType        string `json:"transactionType"`
	VendorTxCode           string `json:"vendorTxCode"`
	ReferenceTransactionID string `json:"referenceTransactionId"`
	Amount                 int64  `json:"amount"`
	Description            string `json:"description"`
}

// windowSize buckets the browser screen width into Opayo's fixed
// challenge-window-size categories. Ranges are non-overlapping with
// closed upper bounds.
func windowSize(width uint32) string {
	switch {
	case width <= 250:
		return "Small"
	case width <= 390:
		return "Medium"
	case width <= 500:
		return "Large"
	case width <= 600:
		return "ExtraLarge"
	default:
		return "FullScreen"
	}
}

// cardFrom extracts the tokenized card session Opayo requires. Variants
// other than Card are rejected with a NotImplemented error naming the
// method; an untokenized card fails closed rather than emitting
// placeholder session values.
func cardFrom(method domain.PaymentMethod) (cardPaymentMethod, error) {
	switch m := method.(type) {
	case domain.Card:
		if m.Token == nil {
			return cardPaymentMethod{}, errs.NewMissingRequiredField("merchant_session_key")
		}
		if m.Token.CardIdentifier == "" {
			return cardPaymentMethod{}, errs.NewMissingRequiredField("card_identifier")
		}
		return cardPaymentMethod{Card: cardSession{
			MerchantSessionKey: m.Token.MerchantSessionKey,
			CardIdentifier:     m.Token.CardIdentifier,
			Reusable:           false,
			Save:               false,
		}}, nil
	default:
		return cardPaymentMethod{}, errs.NewNotImplemented(m.MethodName())
	}
}

// paymentsRequestFrom builds the authorize wire request, validating the
// presence of every field Opayo mandates and naming exactly the absent
// one on failure. The conversion is pure: the same envelope always
// yields a structurally identical request.
func paymentsRequestFrom(rd *domain.PaymentsRouterData) (*paymentsRequest, error) {
	if rd.Description == nil {
		return nil, errs.NewMissingRequiredField("description")
	}
	paymentMethod, err := cardFrom(rd.Request.PaymentMethodData)
	if err != nil {
		return nil, err
	}
	browserInfo := rd.Request.BrowserInfo
	if browserInfo == nil {
		return nil, errs.NewMissingRequiredField("browser_info")
	}
	if rd.ReturnURL == nil {
		return nil, errs.NewMissingRequiredField("notification_url")
	}
	billing := rd.Address.Billing
	if billing == nil {
		return nil, errs.NewMissingRequiredField("billing_address")
	}
	if billing.Line1 == nil {
		return nil, errs.NewMissingRequiredField("address1")
	}
	if billing.City == nil {
		return nil, errs.NewMissingRequiredField("city")
	}
	if billing.Country == nil {
		return nil, errs.NewMissingRequiredField("country")
	}
	if billing.Zip == nil {
		return nil, errs.NewMissingRequiredField("zip")
	}
	if billing.FirstName == nil {
		return nil, errs.NewMissingRequiredField("first_name")
	}
	if billing.LastName == nil {
		return nil, errs.NewMissingRequiredField("last_name")
	}
	if browserInfo.IPAddress == nil {
		return nil, errs.NewMissingRequiredField("browserIP")
	}

	return &paymentsRequest{
		TransactionType:   "Payment",
		PaymentMethod:     paymentMethod,
		VendorTxCode:      rd.PaymentID,
		Amount:            rd.Amount,
		Currency:          string(rd.Currency),
		Description:       *rd.Description,
		CustomerFirstName: *billing.FirstName,
		CustomerLastName:  *billing.LastName,
		BillingAddress: billingAddress{
			Address1:   *billing.Line1,
			City:       *billing.City,
			Country:    *billing.Country,
			PostalCode: *billing.Zip,
		},
		Apply3DSecure: "UseMSPSetting",
		StrongCustomerAuthentication: customerAuthentication{
			NotificationURL:          *rd.ReturnURL,
			BrowserIP:                *browserInfo.IPAddress,
			BrowserAcceptHeader:      browserInfo.AcceptHeader,
			BrowserJavascriptEnabled: browserInfo.JavaScriptEnabled,
			BrowserLanguage:          browserInfo.Language,
			BrowserUserAgent:         browserInfo.UserAgent,
			ChallengeWindowSize:      windowSize(browserInfo.ScreenWidth),
			TransType:                "GoodsAndServicePurchase",
		},
	}, nil
}

// captureRequestFrom builds the release instruction for a previously
// authorized transaction.
func captureRequestFrom(rd *domain.PaymentsRouterData) (*captureRequest, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return nil, errs.NewMissingRequiredField("connector_transaction_id")
	}
	return &captureRequest{InstructionType: "release", Amount: rd.Amount}, nil
}

// refundRequestFrom builds the refund transaction referencing the
// original charge.
func refundRequestFrom(rd *domain.RefundsRouterData) (*refundRequest, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return nil, errs.NewMissingRequiredField("connector_transaction_id")
	}
	description := "Refund"
	if rd.Request.Reason != nil {
		description = *rd.Request.Reason
	}
	return &refundRequest{
		TransactionType:        "Refund",
		VendorTxCode:           rd.Request.RefundID,
		ReferenceTransactionID: rd.Request.ConnectorTransactionID,
		Amount:                 rd.Request.RefundAmount,
		Description:            description,
	}, nil
}

// paymentStatus is Opayo's payment status vocabulary.
type paymentStatus string

const (
	paymentStatusSucceeded  paymentStatus = "Succeeded"
	paymentStatusFailed     paymentStatus = "Failed"
	paymentStatusProcessing paymentStatus = "Processing"
)

// attemptStatus maps Opayo's status vocabulary onto the domain
// enumeration. The mapping is total over the declared wire values; an
// unrecognized value is never guessed into a status.
func (s paymentStatus) attemptStatus() (domain.AttemptStatus, error) {
	switch s {
	case paymentStatusSucceeded:
		return domain.AttemptStatusCharged, nil
	case paymentStatusFailed:
		return domain.AttemptStatusFailure, nil
	case paymentStatusProcessing:
		return domain.AttemptStatusAuthorizing, nil
	default:
		return "", fmt.Errorf("unrecognized opayo payment status %q", string(s))
	}
}

type paymentsResponse struct {
	Status        paymentStatus `json:"status"`
	TransactionID string        `json:"transactionId"`
}

// refundStatus is Opayo's refund status vocabulary.
type refundStatus string

const (
	refundStatusSucceeded  refundStatus = "Succeeded"
	refundStatusFailed     refundStatus = "Failed"
	refundStatusProcessing refundStatus = "Processing"
)

func (s refundStatus) domainStatus() (domain.RefundStatus, error) {
	switch s {
	case refundStatusSucceeded:
		return domain.RefundStatusSuccess, nil
	case refundStatusFailed:
		return domain.RefundStatusFailure, nil
	case refundStatusProcessing:
		return domain.RefundStatusPending, nil
	default:
		return "", fmt.Errorf("unrecognized opayo refund status %q", string(s))
	}
}

type refundResponse struct {
	Status        refundStatus `json:"status"`
	TransactionID string       `json:"transactionId"`
}

// errorResponse is Opayo's error envelope.
type errorResponse struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

func (e errorResponse) toDomain(statusCode int) domain.ErrorResponse {
	return domain.ErrorResponse{
		Code:       strconv.Itoa(e.Code),
		Message:    e.Description,
		StatusCode: statusCode,
	}
}

// authType holds exactly the credential fields Opayo's transport needs.
type authType struct {
	apiKey secret.Secret[string]
}

// authTypeFrom extracts Opayo's integration key from the merchant's
// configured credential variant, failing when the variant does not match
// what Opayo expects.
func authTypeFrom(auth domain.ConnectorAuthType) (authType, error) {
	headerKey, ok := auth.(domain.HeaderKey)
	if !ok {
		return authType{}, errs.NewFailedToObtainAuthType()
	}
	return authType{apiKey: headerKey.APIKey}, nil
}
