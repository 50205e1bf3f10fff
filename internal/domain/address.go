package domain

import "github.com/yourorg/payment-router/internal/secret"

// Address is a postal address. Every field is optional: nil means the
// caller did not supply the value, which is distinct from an empty
// string. Name and line fields are secret-wrapped since they identify
// the cardholder.
type Address struct {
	Line1     *secret.Secret[string]
	Line2     *secret.Secret[string]
	City      *string
	Country   *string
	Zip       *secret.Secret[string]
	FirstName *secret.Secret[string]
	LastName  *secret.Secret[string]
}

// PaymentAddress groups the billing and shipping addresses of an
// attempt. Either may be absent; connectors that require one fail closed
// with a named-field error.
type PaymentAddress struct {
	Billing  *Address
	Shipping *Address
}

// BrowserInfo is the browser fingerprint some connectors require for
// strong customer authentication.
type BrowserInfo struct {
	IPAddress         *string
	AcceptHeader      string
	Language          string
	UserAgent         string
	JavaScriptEnabled bool
	ScreenWidth       uint32
	ScreenHeight      uint32
	ColorDepth        uint8
	TimeZoneOffset    int32
}
