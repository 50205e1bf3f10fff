package domain

import "github.com/yourorg/payment-router/internal/secret"

// ConnectorAuthType is the merchant's configured credential variant for
// a connector. It is opaque to the executor; only the connector's own
// auth-type conversion consumes it, failing with FailedToObtainAuthType
// when the configured variant does not match what the connector expects.
type ConnectorAuthType interface {
	sealedConnectorAuthType()
}

// HeaderKey authenticates with a single API key sent in a header.
type HeaderKey struct {
	APIKey secret.Secret[string]
}

func (HeaderKey) sealedConnectorAuthType() {}

// BodyKey authenticates with an API key plus a second key carried in the
// request body.
type BodyKey struct {
	APIKey secret.Secret[string]
	Key1   secret.Secret[string]
}

func (BodyKey) sealedConnectorAuthType() {}

// SignatureKey authenticates with an API key and a signing secret.
type SignatureKey struct {
	APIKey    secret.Secret[string]
	Key1      secret.Secret[string]
	APISecret secret.Secret[string]
}

func (SignatureKey) sealedConnectorAuthType() {}
