package jsoncodec

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&message{Name: "rent", Amount: decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"rent","amount":"12.5"}`, string(data))

	var got message
	require.NoError(t, c.Unmarshal([]byte(`{"name":"rent","amount":"0.1"}`), &got))
	assert.Equal(t, "rent", got.Name)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("0.1")))
}

func TestUnmarshalEmptyBody(t *testing.T) {
	got := message{Name: "kept"}
	require.NoError(t, Codec{}.Unmarshal(nil, &got))
	assert.Equal(t, "kept", got.Name)
}

func TestUnmarshalInvalid(t *testing.T) {
	var got message
	assert.Error(t, Codec{}.Unmarshal([]byte(`{"name":`), &got))
}
