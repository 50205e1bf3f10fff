package secret

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretRedactsAllFormattingVerbs(t *testing.T) {
	s := New("4242424242424242")

	assert.Equal(t, Redacted, s.String())
	assert.Equal(t, Redacted, fmt.Sprint(s))
	assert.Equal(t, Redacted, fmt.Sprintf("%v", s))
	assert.Equal(t, Redacted, fmt.Sprintf("%+v", s))
	assert.Equal(t, Redacted, fmt.Sprintf("%#v", s))
	assert.Equal(t, Redacted, fmt.Sprintf("%s", s))

	assert.NotContains(t, fmt.Sprintf("card=%v cvc=%s", s, New("999")), "4242")
}

func TestSecretExposeReturnsRawValue(t *testing.T) {
	s := New("sk_test_abc")
	assert.Equal(t, "sk_test_abc", s.Expose())
}

func TestSecretJSONRoundTrip(t *testing.T) {
	type payload struct {
		CardNumber Secret[string] `json:"cardNumber"`
	}
	out, err := json.Marshal(payload{CardNumber: New("5424000000000015")})
	require.NoError(t, err)
	// Serialization is deliberate exposure; the wire request needs the value.
	assert.JSONEq(t, `{"cardNumber":"5424000000000015"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal(out, &in))
	assert.Equal(t, "5424000000000015", in.CardNumber.Expose())
}

func TestSecretEqual(t *testing.T) {
	assert.True(t, Equal(New("a"), New("a")))
	assert.False(t, Equal(New("a"), New("b")))
}
