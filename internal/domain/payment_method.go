package domain

import "github.com/yourorg/payment-router/internal/secret"

// PaymentMethod is the polymorphic payment instrument attached to an
// attempt. The variant set is sealed: every transformer must either
// handle a variant exhaustively or reject it with a typed
// "not implemented" error naming the method.
type PaymentMethod interface {
	// MethodName is the stable name used in NotImplemented rejections
	// and metric labels.
	MethodName() string

	sealedPaymentMethod()
}

// Card is a raw card instrument. All cardholder data is secret-wrapped
// at construction and never appears in logs or debug output.
type Card struct {
	Number     secret.Secret[string]
	ExpMonth   secret.Secret[string]
	ExpYear    secret.Secret[string]
	HolderName secret.Secret[string]
	CVC        secret.Secret[string]

	// Token carries connector-issued tokenization data for connectors
	// that exchange card data out of band. Nil when the card has not
	// been tokenized.
	Token *CardToken
}

// CardToken is connector-issued tokenization data obtained from a prior
// session exchange.
type CardToken struct {
	MerchantSessionKey secret.Secret[string]
	CardIdentifier     string
}

func (Card) MethodName() string   { return "card" }
func (Card) sealedPaymentMethod() {}

// Wallet is a wallet instrument (e.g. a device wallet token). Defined so
// transformers exercise their rejection path; no connector in this
// registry supports it yet.
type Wallet struct {
	Provider string
	Token    secret.Secret[string]
}

func (w Wallet) MethodName() string { return "wallet (" + w.Provider + ")" }
func (Wallet) sealedPaymentMethod() {}
