package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/model"
)

// Covers spec.md §8 property 9: encode then decode preserves method,
// correlation id, and the inner payload byte-for-byte.
func TestEnvelopeRoundTrip(t *testing.T) {
	req := model.Request{
		JSONRPC: "2.0",
		ID:      42,
		Method:  "select_concept",
		Params: model.Params{
			Message: model.Message{
				Role:      "user",
				MessageID: "corr-123",
				Parts:     []model.Part{{Text: `{"action":"select_concept","subtopic":"analogies"}`}},
			},
		},
	}

	data, err := EncodeRequest(req)
	require.NoError(t, err)

	decoded, err := DecodeRequest(data)
	require.NoError(t, err)

	assert.Equal(t, req.Method, decoded.Method)
	assert.Equal(t, req.ID, decoded.ID)
	assert.Equal(t, req.Params.Message.MessageID, decoded.Params.Message.MessageID)
	assert.JSONEq(t, req.Params.Message.FirstText(), decoded.Params.Message.FirstText())
}

func TestResponseRoundTripError(t *testing.T) {
	resp := model.Response{
		JSONRPC: "2.0",
		ID:      7,
		Error:   &model.RPCError{Message: "timeout"},
	}

	data, err := EncodeResponse(resp)
	require.NoError(t, err)

	decoded, err := DecodeResponse(data)
	require.NoError(t, err)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, "timeout", decoded.Error.Message)
	assert.Nil(t, decoded.Result)
}
