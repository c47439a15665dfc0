package logging

import (
	"context"
	"encoding/json"
	"time"
)

const maxPayloadSummary = 500

// summarizePayload truncates a JSON payload for log lines, mirroring the
// truncate_text/format_json helpers the call log was built around.
func summarizePayload(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "<unmarshalable>"
	}
	s := string(data)
	if len(s) <= maxPayloadSummary {
		return s
	}
	return s[:maxPayloadSummary] + "...(truncated)"
}

// LogCall records one inter-service envelope exchange: caller, callee,
// skill/action, elapsed time and a truncated payload, per spec §4.1's
// "logs attach the caller, callee, skill, elapsed ms, and payload summary".
func LogCall(ctx context.Context, logger Logger, caller, callee, action string, elapsed time.Duration, payload interface{}, callErr error) {
	fields := map[string]interface{}{
		"caller":      caller,
		"callee":      callee,
		"action":      action,
		"elapsed_ms":  elapsed.Milliseconds(),
		"payload":     summarizePayload(payload),
	}
	if callErr != nil {
		fields["error"] = callErr.Error()
		logger.ErrorWithContext(ctx, "envelope call failed", fields)
		return
	}
	logger.InfoWithContext(ctx, "envelope call completed", fields)
}
