package errs

import "fmt"

// DatabaseErrorKind is the closed set of SQL-store failures the core
// must be able to wrap. The store implementation itself lives outside
// this repository.
type DatabaseErrorKind string

const (
	DatabaseConnectionError DatabaseErrorKind = "database_connection_error"
	DatabaseNotFound        DatabaseErrorKind = "database_not_found"
	DatabaseUniqueViolation DatabaseErrorKind = "database_unique_violation"
	DatabaseOther           DatabaseErrorKind = "database_other"
)

// DatabaseError is a SQL-store failure.
type DatabaseError struct {
	Kind  DatabaseErrorKind
	cause error
}

func (e *DatabaseError) Error() string {
	switch e.Kind {
	case DatabaseConnectionError:
		return "an error occurred when obtaining database connection"
	case DatabaseNotFound:
		return "the requested resource was not found in the database"
	case DatabaseUniqueViolation:
		return "a unique constraint violation occurred"
	default:
		return "an unknown database error occurred"
	}
}

func (e *DatabaseError) Unwrap() error { return e.cause }

func NewDatabaseError(kind DatabaseErrorKind, cause error) *DatabaseError {
	return &DatabaseError{Kind: kind, cause: cause}
}

// RedisErrorKind is the closed set of Redis operation failures.
type RedisErrorKind string

const (
	RedisSetFailed                 RedisErrorKind = "set_failed"
	RedisSetExFailed               RedisErrorKind = "setex_failed"
	RedisSetExpiryFailed           RedisErrorKind = "set_expiry_failed"
	RedisGetFailed                 RedisErrorKind = "get_failed"
	RedisDeleteFailed              RedisErrorKind = "delete_failed"
	RedisStreamAppendFailed        RedisErrorKind = "stream_append_failed"
	RedisStreamReadFailed          RedisErrorKind = "stream_read_failed"
	RedisStreamDeleteFailed        RedisErrorKind = "stream_delete_failed"
	RedisStreamAcknowledgeFailed   RedisErrorKind = "stream_acknowledge_failed"
	RedisConsumerGroupCreateFailed RedisErrorKind = "consumer_group_create_failed"
	RedisJSONSerializationFailed   RedisErrorKind = "json_serialization_failed"
	RedisJSONDeserializationFailed RedisErrorKind = "json_deserialization_failed"
)

// RedisError is a Redis operation failure.
type RedisError struct {
	Kind  RedisErrorKind
	cause error
}

func (e *RedisError) Error() string {
	return fmt.Sprintf("redis operation failed: %s", e.Kind)
}

func (e *RedisError) Unwrap() error { return e.cause }

func NewRedisError(kind RedisErrorKind, cause error) *RedisError {
	return &RedisError{Kind: kind, cause: cause}
}

// StorageErrorKind classifies the persistence-layer failures surfaced to
// the core.
type StorageErrorKind string

const (
	StorageValueNotFound  StorageErrorKind = "value_not_found"
	StorageDuplicateValue StorageErrorKind = "duplicate_value"
	StorageDatabase       StorageErrorKind = "database"
	StorageRedis          StorageErrorKind = "redis"
)

// StorageError is the persistence-layer error shape the core wraps and
// rethrows. Entity names the missing or duplicated resource.
type StorageError struct {
	Kind   StorageErrorKind
	Entity string
	cause  error
}

func (e *StorageError) Error() string {
	switch e.Kind {
	case StorageValueNotFound:
		return fmt.Sprintf("value not found: %s", e.Entity)
	case StorageDuplicateValue:
		return fmt.Sprintf("duplicate value: %s", e.Entity)
	case StorageDatabase:
		return "database error: " + e.cause.Error()
	case StorageRedis:
		return "redis error: " + e.cause.Error()
	default:
		return fmt.Sprintf("storage error: %s", e.Kind)
	}
}

func (e *StorageError) Unwrap() error { return e.cause }

func NewValueNotFound(entity string) *StorageError {
	return &StorageError{Kind: StorageValueNotFound, Entity: entity}
}

func NewDuplicateValue(entity string) *StorageError {
	return &StorageError{Kind: StorageDuplicateValue, Entity: entity}
}

// FromDatabase lifts a database error into a storage error, preserving
// it as the cause.
func FromDatabase(err *DatabaseError) *StorageError {
	return &StorageError{Kind: StorageDatabase, cause: err}
}

// FromRedis lifts a Redis error into a storage error, preserving it as
// the cause.
func FromRedis(err *RedisError) *StorageError {
	return &StorageError{Kind: StorageRedis, cause: err}
}
