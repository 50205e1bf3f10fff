// Package domain holds the canonical, connector-agnostic transaction
// model: the generic router-data envelope, the closed status and flow
// enumerations, payment method variants and connector credentials.
// Connector wire shapes never leak into this package; every connector
// status is mapped onto these enumerations before it crosses the
// transformer boundary.
package domain

// Flow identifies which payment operation is being performed. It is a
// zero-data dispatch key: it selects an integration implementation and
// carries no behavior.
type Flow string

const (
	FlowAuthorize     Flow = "authorize"
	FlowCapture       Flow = "capture"
	FlowPSync         Flow = "psync"
	FlowRefundExecute Flow = "refund_execute"
	FlowRefundSync    Flow = "refund_sync"
)

// Idempotent reports whether the flow is safe to retry without an
// idempotency key. Mutating flows must never be blindly retried; a
// connector-side duplicate charge is a correctness violation.
func (f Flow) Idempotent() bool {
	switch f {
	case FlowPSync, FlowRefundSync:
		return true
	default:
		return false
	}
}

// AttemptStatus is the connector-agnostic payment attempt status. Each
// connector's own status vocabulary maps totally onto this set.
type AttemptStatus string

const (
	AttemptStatusStarted     AttemptStatus = "started"
	AttemptStatusAuthorizing AttemptStatus = "authorizing"
	AttemptStatusPending     AttemptStatus = "pending"
	AttemptStatusCharged     AttemptStatus = "charged"
	AttemptStatusFailure     AttemptStatus = "failure"
)

// RefundStatus is the connector-agnostic refund status.
type RefundStatus string

const (
	RefundStatusSuccess RefundStatus = "success"
	RefundStatusFailure RefundStatus = "failure"
	RefundStatusPending RefundStatus = "pending"
)

// Currency is a closed ISO-4217 currency enumeration. Amounts are always
// integers in the currency's minor unit.
type Currency string

const (
	CurrencyAUD Currency = "AUD"
	CurrencyCAD Currency = "CAD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyJPY Currency = "JPY"
	CurrencySGD Currency = "SGD"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether c is a member of the closed enumeration.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyAUD, CurrencyCAD, CurrencyEUR, CurrencyGBP,
		CurrencyINR, CurrencyJPY, CurrencySGD, CurrencyUSD:
		return true
	default:
		return false
	}
}

// ConnectorName is the closed set of supported connectors, one variant
// per registered integration.
type ConnectorName string

const (
	ConnectorOpayo  ConnectorName = "opayo"
	ConnectorStripe ConnectorName = "stripe"
)

// AuthenticationType selects the strong-customer-authentication mode for
// an attempt.
type AuthenticationType string

const (
	AuthenticationThreeDS   AuthenticationType = "three_ds"
	AuthenticationNoThreeDS AuthenticationType = "no_three_ds"
)
