// Package connector defines the polymorphic contract a connector
// implementation must satisfy to be dispatchable by flow, and the
// runtime registry that resolves a connector identifier to its boxed
// implementation.
package connector

import (
	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/services"
)

// PaymentIntegration is the integration instantiation for payment flows.
type PaymentIntegration = services.Integration[domain.PaymentsRequestData, domain.PaymentsResponseData]

// RefundIntegration is the integration instantiation for refund flows.
type RefundIntegration = services.Integration[domain.RefundsRequestData, domain.RefundsResponseData]

// Connector exposes one integration per supported flow. Adding a flow to
// this interface forces every registered connector to implement (or
// explicitly reject) it, which keeps the flow-to-implementation mapping
// exhaustively checkable at build time.
type Connector interface {
	Name() domain.ConnectorName

	Authorize() PaymentIntegration
	Capture() PaymentIntegration
	PSync() PaymentIntegration

	RefundExecute() RefundIntegration
	RefundSync() RefundIntegration
}
