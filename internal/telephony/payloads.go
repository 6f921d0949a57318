package telephony

import (
	"encoding/json"
	"strings"
	"time"
)

// Event names sent by the Retell webhook stream.
const (
	EventCallStarted  = "call_started"
	EventCallEnded    = "call_ended"
	EventCallAnalyzed = "call_analyzed"
)

// WebhookEnvelope is the top-level Retell webhook payload: an event
// discriminator plus the call object. Some deliveries nest the call under
// "call", others put the fields at the top level.
type WebhookEnvelope struct {
	Event string          `json:"event"`
	Call  json.RawMessage `json:"call"`
}

// CallPayload is the provider's call object, modeled with explicit optional
// fields rather than an untyped blob.
type CallPayload struct {
	CallID              string          `json:"call_id"`
	AgentID             string          `json:"agent_id"`
	RetellLLMID         string          `json:"retell_llm_id"`
	LLMID               string          `json:"llm_id"`
	FromNumber          string          `json:"from_number"`
	ToNumber            string          `json:"to_number"`
	CallStatus          string          `json:"call_status"`
	StartTimestamp      int64           `json:"start_timestamp"` // epoch millis
	EndTimestamp        int64           `json:"end_timestamp"`   // epoch millis
	DurationMs          *int64          `json:"duration_ms"`
	DisconnectionReason string          `json:"disconnection_reason"`
	RecordingURL        string          `json:"recording_url"`
	Transcript          string          `json:"transcript"`
	CallAnalysis        *CallAnalysis   `json:"call_analysis"`
	DynamicVariables    json.RawMessage `json:"retell_llm_dynamic_variables"`
	OptOutSensitive     bool            `json:"opt_out_sensitive_data_storage"`
}

// CallAnalysis is the post-call analysis block delivered with call_analyzed.
// custom_analysis_data is free-form; values are extracted defensively.
type CallAnalysis struct {
	UserSentiment      string                     `json:"user_sentiment"`
	CallSummary        string                     `json:"call_summary"`
	CallSuccessful     *bool                      `json:"call_successful"`
	CustomAnalysisData map[string]json.RawMessage `json:"custom_analysis_data"`
}

// ParseWebhook decodes the raw body into the envelope and call payload,
// falling back to top-level call fields when no nested call object is present.
func ParseWebhook(body []byte) (string, *CallPayload, error) {
	var env WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", nil, err
	}
	var call CallPayload
	src := body
	if len(env.Call) > 0 && string(env.Call) != "null" {
		src = env.Call
	}
	if err := json.Unmarshal(src, &call); err != nil {
		return "", nil, err
	}
	return env.Event, &call, nil
}

// AgentIdentifier returns the first non-empty agent identifier field.
func (c *CallPayload) AgentIdentifier() string {
	for _, v := range []string{c.AgentID, c.RetellLLMID, c.LLMID} {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// StartTime converts the epoch-millis start timestamp, defaulting to now.
func (c *CallPayload) StartTime(now time.Time) time.Time {
	if c.StartTimestamp > 0 {
		return time.UnixMilli(c.StartTimestamp).UTC()
	}
	return now.UTC()
}

// EndTime converts the epoch-millis end timestamp, defaulting to now.
func (c *CallPayload) EndTime(now time.Time) time.Time {
	if c.EndTimestamp > 0 {
		return time.UnixMilli(c.EndTimestamp).UTC()
	}
	return now.UTC()
}

// DurationSeconds converts duration_ms to whole seconds. Returns nil when the
// provider did not supply a duration.
func (c *CallPayload) DurationSeconds() *int64 {
	if c.DurationMs == nil {
		return nil
	}
	// Round to nearest second, matching how durations are billed upstream.
	secs := (*c.DurationMs + 500) / 1000
	return &secs
}

// customString reads a string-valued key out of custom_analysis_data,
// tolerating absent keys and non-string values.
func (a *CallAnalysis) customString(key string) string {
	if a == nil || a.CustomAnalysisData == nil {
		return ""
	}
	raw, ok := a.CustomAnalysisData[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Qualification reads the AI qualification flag, accepted as a JSON boolean or
// the strings "true"/"false". Returns nil when absent or unparseable.
func (a *CallAnalysis) Qualification() *bool {
	if a == nil || a.CustomAnalysisData == nil {
		return nil
	}
	raw, ok := a.CustomAnalysisData["is_qualified"]
	if !ok {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			v := true
			return &v
		case "false":
			v := false
			return &v
		}
	}
	return nil
}
