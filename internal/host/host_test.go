package host

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/model"
)

// Covers spec.md §8 scenario S4: malformed inner JSON yields
// {success:false, error:"Invalid JSON in task message"} over HTTP 200.
func TestHandleRPCMalformedInnerJSON(t *testing.T) {
	h := New("question_generator", "1.0.0", "http://localhost:5008", nil)
	h.Register("generate_question", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		t.Fatal("handler should not be invoked for malformed payload")
		return nil, nil
	})

	req := model.Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "generate_question",
		Params: model.Params{
			Message: model.Message{
				Role:      "user",
				MessageID: "m1",
				Parts:     []model.Part{{Text: "{not valid json"}},
			},
		},
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	h.ServeHTTP(rr, httpReq)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp model.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, model.StateFailed, resp.Result.Status.State)

	var inner map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Status.Message.FirstText()), &inner))
	assert.Equal(t, false, inner["success"])
	assert.Equal(t, "Invalid JSON in task message", inner["error"])
}

func TestHandleRPCDispatchesRegisteredAction(t *testing.T) {
	h := New("concept_guide", "1.0.0", "http://localhost:5007", nil)
	h.Register("select_concept", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		return map[string]interface{}{"success": true, "concept_id": "c1"}, nil
	})

	payload, _ := json.Marshal(map[string]string{"action": "select_concept", "subtopic": "analogies"})
	req := model.Request{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "select_concept",
		Params: model.Params{
			Message: model.Message{
				Role:      "user",
				MessageID: "m2",
				Parts:     []model.Part{{Text: string(payload)}},
			},
		},
	}
	body, _ := json.Marshal(req)

	rr := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	h.ServeHTTP(rr, httpReq)

	var resp model.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.StateCompleted, resp.Result.Status.State)
	assert.Contains(t, resp.Result.Status.Message.FirstText(), "c1")
}

// Covers spec.md §4.2(d): a canceled request context (client disconnect or
// deadline) surfaces as StateCanceled rather than hanging or reporting a
// false StateFailed.
func TestHandleRPCReportsCanceledWhenContextIsDone(t *testing.T) {
	h := New("quality_checker", "1.0.0", "http://localhost:5009", nil)
	unblock := make(chan struct{})
	h.Register("check_quality", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		<-unblock
		return map[string]interface{}{"success": true}, nil
	})
	defer close(unblock)

	payload, _ := json.Marshal(map[string]string{"action": "check_quality"})
	req := model.Request{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "check_quality",
		Params: model.Params{
			Message: model.Message{Role: "user", MessageID: "m3", Parts: []model.Part{{Text: string(payload)}}},
		},
	}
	body, _ := json.Marshal(req)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	rr := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)).WithContext(ctx)
	h.ServeHTTP(rr, httpReq)

	var resp model.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, model.StateCanceled, resp.Result.Status.State)
}
