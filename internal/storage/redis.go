package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
)

// RedisStore reads merchant connector accounts from Redis. Accounts are
// stored as JSON under mca:{merchant_id}:{connector_name}.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore wraps an already-connected client. A zero ttl stores
// accounts without expiry.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{client: client, ttl: ttl}
}

// PutAccount serializes and stores an account.
func (s *RedisStore) PutAccount(ctx context.Context, account MerchantConnectorAccount) error {
	payload, err := json.Marshal(account)
	if err != nil {
		return errs.FromRedis(errs.NewRedisError(errs.RedisJSONSerializationFailed, err))
	}
	key := accountKey(account.MerchantID, account.ConnectorName)
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return errs.FromRedis(errs.NewRedisError(errs.RedisSetFailed, err))
	}
	return nil
}

func (s *RedisStore) ConnectorAuth(ctx context.Context, merchantID string, name domain.ConnectorName) (domain.ConnectorAuthType, error) {
	key := accountKey(merchantID, name)
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.NewValueNotFound(key)
		}
		return nil, errs.FromRedis(errs.NewRedisError(errs.RedisGetFailed, err))
	}
	var account MerchantConnectorAccount
	if err := json.Unmarshal(payload, &account); err != nil {
		return nil, errs.FromRedis(errs.NewRedisError(errs.RedisJSONDeserializationFailed, err))
	}
	return account.AuthType()
}
