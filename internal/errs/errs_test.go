package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatusCodeClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   ApiClientErrorKind
	}{
		{400, BadRequestReceived},
		{401, UnauthorizedReceived},
		{403, ForbiddenReceived},
		{404, NotFoundReceived},
		{405, MethodNotAllowedReceived},
		{408, RequestTimeoutReceived},
		{422, UnprocessableEntityReceived},
		{429, TooManyRequestsReceived},
		{500, InternalServerErrorReceived},
		{502, BadGatewayReceived},
		{503, ServiceUnavailableReceived},
		{504, GatewayTimeoutReceived},
		{418, UnexpectedServerResponse},
		{511, UnexpectedServerResponse},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			err := FromStatusCode(tc.status, []byte("raw body"))
			assert.Equal(t, tc.kind, err.Kind)
			assert.Equal(t, []byte("raw body"), err.Body)
		})
	}
}

func TestMissingRequiredFieldNamesField(t *testing.T) {
	err := NewMissingRequiredField("billing_address")
	assert.Equal(t, "billing_address", err.FieldName)
	assert.EqualError(t, err, "missing required field: billing_address")
}

func TestRouterErrorStatusCodes(t *testing.T) {
	clientKinds := []RouterErrorKind{KindParsing, KindAuthentication, KindAuthorization, KindValidation}
	for _, k := range clientKinds {
		assert.Equal(t, http.StatusBadRequest, (&RouterError{Kind: k}).StatusCode(), string(k))
	}
	serverKinds := []RouterErrorKind{
		KindNotImplementedByConnector, KindDatabase, KindEncryption,
		KindConfiguration, KindMetrics, KindIO, KindUnexpected,
	}
	for _, k := range serverKinds {
		assert.Equal(t, http.StatusInternalServerError, (&RouterError{Kind: k}).StatusCode(), string(k))
	}
}

func TestLiftsPreserveCause(t *testing.T) {
	decodeErr := errors.New("unexpected end of JSON input")
	parseErr := NewParsingError("opayo payments response", decodeErr)
	topErr := FromParsing(parseErr)

	assert.Equal(t, KindParsing, topErr.Kind)
	// The original cause must remain reachable through the chain.
	assert.True(t, errors.Is(topErr, decodeErr))

	var pe *ParsingError
	require.True(t, errors.As(topErr, &pe))
	assert.Equal(t, "opayo payments response", pe.Of)
}

func TestFromConnectorClassification(t *testing.T) {
	assert.Equal(t, KindValidation, FromConnector(NewMissingRequiredField("city")).Kind)
	assert.Equal(t, KindValidation, FromConnector(NewInvalidConnectorName("acme")).Kind)
	assert.Equal(t, KindValidation, FromConnector(NewFailedToObtainAuthType()).Kind)
	assert.Equal(t, KindNotImplementedByConnector, FromConnector(NewNotImplemented("Wallet")).Kind)
	assert.Equal(t, KindParsing, FromConnector(NewResponseDeserializationFailed(errors.New("bad json"))).Kind)
	assert.Equal(t, KindUnexpected, FromConnector(NewProcessingStepFailed(nil)).Kind)
}

func TestStorageLifts(t *testing.T) {
	dbErr := NewDatabaseError(DatabaseUniqueViolation, nil)
	storageErr := FromDatabase(dbErr)
	assert.Equal(t, StorageDatabase, storageErr.Kind)
	assert.True(t, errors.Is(storageErr, dbErr))

	redisErr := NewRedisError(RedisGetFailed, errors.New("connection refused"))
	assert.True(t, errors.Is(FromRedis(redisErr), redisErr))

	topErr := FromStorage(FromRedis(redisErr))
	assert.Equal(t, KindDatabase, topErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, topErr.StatusCode())
}
