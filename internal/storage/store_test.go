package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/secret"
)

func testAccount() MerchantConnectorAccount {
	return MerchantConnectorAccount{
		MerchantID:    "merchant_1",
		ConnectorName: domain.ConnectorOpayo,
		APIKey:        secret.New("opayo-key"),
		AuthKind:      AuthKindHeaderKey,
	}
}

func TestInMemoryStoreResolvesAuth(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.AddAccount(testAccount()))

	auth, err := store.ConnectorAuth(context.Background(), "merchant_1", domain.ConnectorOpayo)
	require.NoError(t, err)

	headerKey, ok := auth.(domain.HeaderKey)
	require.True(t, ok)
	assert.Equal(t, "opayo-key", headerKey.APIKey.Expose())
}

func TestInMemoryStoreMissingAccount(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.ConnectorAuth(context.Background(), "merchant_1", domain.ConnectorStripe)

	var storageErr *errs.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, errs.StorageValueNotFound, storageErr.Kind)
	assert.Equal(t, "mca:merchant_1:stripe", storageErr.Entity)
}

func TestInMemoryStoreRejectsDuplicates(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.AddAccount(testAccount()))

	err := store.AddAccount(testAccount())
	var storageErr *errs.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, errs.StorageDuplicateValue, storageErr.Kind)
}

func TestAuthTypeVariants(t *testing.T) {
	account := testAccount()
	account.AuthKind = AuthKindSignatureKey
	account.Key1 = secret.New("k1")
	account.APISecret = secret.New("sig")

	auth, err := account.AuthType()
	require.NoError(t, err)
	sigKey, ok := auth.(domain.SignatureKey)
	require.True(t, ok)
	assert.Equal(t, "sig", sigKey.APISecret.Expose())

	account.AuthKind = "oauth"
	_, err = account.AuthType()
	var validationErr *errs.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "auth_kind", validationErr.FieldName)
}

func TestAccountJSONRoundTripKeepsCredentials(t *testing.T) {
	// The Redis backend persists accounts as JSON; credentials must
	// survive the round trip even though their String form is redacted.
	account := testAccount()
	restored := MerchantConnectorAccount{}

	payload, err := json.Marshal(account)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &restored))

	assert.Equal(t, "opayo-key", restored.APIKey.Expose())
	assert.Equal(t, account.ConnectorName, restored.ConnectorName)
}
