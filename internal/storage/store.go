// Package storage resolves merchant connector accounts: the per-merchant
// credentials and configuration each connector dispatch needs. Two
// backends exist, an in-memory map for tests and single-node setups and
// a Redis-backed store for shared deployments.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/secret"
)

// MerchantConnectorAccount holds one merchant's credentials for one
// connector.
type MerchantConnectorAccount struct {
	MerchantID    string                `json:"merchant_id"`
	ConnectorName domain.ConnectorName  `json:"connector_name"`
	APIKey        secret.Secret[string] `json:"api_key"`
	Key1          secret.Secret[string] `json:"key1,omitempty"`
	APISecret     secret.Secret[string] `json:"api_secret,omitempty"`
	AuthKind      string                `json:"auth_kind"`
}

// Auth kinds stored alongside the credentials.
const (
	AuthKindHeaderKey    = "header_key"
	AuthKindBodyKey      = "body_key"
	AuthKindSignatureKey = "signature_key"
)

// AuthType reconstructs the sealed auth variant from the stored record.
func (a MerchantConnectorAccount) AuthType() (domain.ConnectorAuthType, error) {
	switch a.AuthKind {
	case AuthKindHeaderKey:
		return domain.HeaderKey{APIKey: a.APIKey}, nil
	case AuthKindBodyKey:
		return domain.BodyKey{APIKey: a.APIKey, Key1: a.Key1}, nil
	case AuthKindSignatureKey:
		return domain.SignatureKey{APIKey: a.APIKey, Key1: a.Key1, APISecret: a.APISecret}, nil
	default:
		return nil, errs.NewValidationIncorrectValue("auth_kind")
	}
}

// CredentialStore resolves connector credentials for a merchant.
type CredentialStore interface {
	// ConnectorAuth returns the auth material for the pair, or a
	// StorageError with kind value_not_found when no account exists.
	ConnectorAuth(ctx context.Context, merchantID string, name domain.ConnectorName) (domain.ConnectorAuthType, error)
}

// InMemoryStore is a map-backed CredentialStore, safe for concurrent use.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]MerchantConnectorAccount
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[string]MerchantConnectorAccount)}
}

func accountKey(merchantID string, name domain.ConnectorName) string {
	return fmt.Sprintf("mca:%s:%s", merchantID, name)
}

// AddAccount registers an account, rejecting duplicates.
func (s *InMemoryStore) AddAccount(account MerchantConnectorAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := accountKey(account.MerchantID, account.ConnectorName)
	if _, exists := s.accounts[key]; exists {
		return errs.NewDuplicateValue(key)
	}
	s.accounts[key] = account
	return nil
}

func (s *InMemoryStore) ConnectorAuth(_ context.Context, merchantID string, name domain.ConnectorName) (domain.ConnectorAuthType, error) {
	s.mu.RLock()
	account, ok := s.accounts[accountKey(merchantID, name)]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewValueNotFound(accountKey(merchantID, name))
	}
	return account.AuthType()
}
