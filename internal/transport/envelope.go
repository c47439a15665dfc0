package transport

import (
	"encoding/json"

	"github.com/examforge/examforge/internal/model"
)

// EncodeRequest serializes a Request to canonical JSON bytes.
func EncodeRequest(req model.Request) ([]byte, error) {
	return json.Marshal(req)
}

// DecodeRequest parses a Request from JSON bytes.
func DecodeRequest(data []byte) (model.Request, error) {
	var req model.Request
	err := json.Unmarshal(data, &req)
	return req, err
}

// EncodeResponse serializes a Response to canonical JSON bytes.
func EncodeResponse(resp model.Response) ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeResponse parses a Response from JSON bytes.
func DecodeResponse(data []byte) (model.Response, error) {
	var resp model.Response
	err := json.Unmarshal(data, &resp)
	return resp, err
}
