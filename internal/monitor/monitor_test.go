package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paymentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "PaymentRequest",
	"type": "object",
	"properties": {
		"merchant_id": { "type": "string", "minLength": 1 },
		"connector": { "type": "string" },
		"amount": { "type": "integer", "minimum": 0 },
		"currency": { "type": "string", "minLength": 3, "maxLength": 3 }
	},
	"required": ["merchant_id", "connector", "amount", "currency"]
}`

func TestNewContractMonitorCompilesSchema(t *testing.T) {
	cm, err := NewContractMonitor([]byte(paymentSchema))
	require.NoError(t, err)
	require.NotNil(t, cm)
}

func TestNewContractMonitorRejectsMalformedSchema(t *testing.T) {
	_, err := NewContractMonitor([]byte("{invalid_json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error compiling schema")
}

func TestValidateAcceptsConformingBody(t *testing.T) {
	cm, err := NewContractMonitor([]byte(paymentSchema))
	require.NoError(t, err)

	valid, validationErrors, err := cm.Validate([]byte(`{
		"merchant_id": "merchant_1",
		"connector": "opayo",
		"amount": 100,
		"currency": "USD"
	}`))
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, validationErrors)
}

func TestValidateReportsEveryViolation(t *testing.T) {
	cm, err := NewContractMonitor([]byte(paymentSchema))
	require.NoError(t, err)

	valid, validationErrors, err := cm.Validate([]byte(`{
		"merchant_id": "merchant_1",
		"amount": -5
	}`))
	require.NoError(t, err)
	assert.False(t, valid)
	// Missing connector and currency plus a negative amount.
	assert.Len(t, validationErrors, 3)
}

func TestValidateRejectsUndecodableBody(t *testing.T) {
	cm, err := NewContractMonitor([]byte(paymentSchema))
	require.NoError(t, err)

	valid, _, err := cm.Validate([]byte("not json"))
	assert.False(t, valid)
	assert.Error(t, err)
}

func TestFormatErrors(t *testing.T) {
	assert.Empty(t, FormatErrors(nil))
	assert.Equal(t,
		"Validation errors: a; b",
		FormatErrors([]string{"a", "b"}),
	)
}
