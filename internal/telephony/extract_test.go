package telephony

import (
	"encoding/json"
	"strings"
	"testing"
)

func analysisFromJSON(t *testing.T, raw string) *CallAnalysis {
	t.Helper()
	var a CallAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("parse analysis: %v", err)
	}
	return &a
}

func TestExtractFromAnalysis(t *testing.T) {
	analysis := analysisFromJSON(t, `{
		"user_sentiment": "Positive",
		"call_summary": "Caller has carpenter ants in the kitchen.",
		"custom_analysis_data": {
			"home_size": "2400",
			"yard_size": "0.5 acre",
			"pest_issue": "carpenter ants",
			"customer_street_address": "12 Oak St",
			"preferred_service_time": "AM",
			"customer_first_name": "Dana",
			"customer_last_name": "Reyes",
			"customer_city": "Portland",
			"customer_state": "ME",
			"customer_zip": "04101"
		}
	}`)

	got := Extract(analysis, "")

	if got.Sentiment != "positive" {
		t.Errorf("sentiment = %q, want lower-cased positive", got.Sentiment)
	}
	if got.PestIssue != "carpenter ants" {
		t.Errorf("pest issue = %q", got.PestIssue)
	}
	if got.StreetAddress != "12 Oak St" || got.CustomerCity != "Portland" || got.CustomerZip != "04101" {
		t.Errorf("address fields not extracted: %+v", got)
	}
	if got.CustomerFirstName != "Dana" || got.CustomerLastName != "Reyes" {
		t.Errorf("name fields not extracted: %+v", got)
	}
	if got.Summary == "" {
		t.Error("expected summary")
	}
}

func TestExtractDefaultsWhenAbsent(t *testing.T) {
	got := Extract(nil, "")

	if got.Sentiment != "neutral" {
		t.Errorf("sentiment = %q, want neutral default", got.Sentiment)
	}
	if got.PestIssue != "" || got.Summary != "" {
		t.Errorf("expected zero values, got %+v", got)
	}
}

func TestExtractPestIssueTranscriptFallback(t *testing.T) {
	transcript := "Hi, I keep seeing roaches under the sink and some ants near the door."

	got := Extract(nil, transcript)

	if !strings.Contains(strings.ToLower(got.PestIssue), "roach") {
		t.Errorf("expected roach match in %q", got.PestIssue)
	}
	if !strings.Contains(strings.ToLower(got.PestIssue), "ant") {
		t.Errorf("expected ant match in %q", got.PestIssue)
	}
}

func TestExtractPestIssueCapped(t *testing.T) {
	transcript := strings.Repeat("there are termites everywhere in the crawlspace and walls. ", 20)

	got := Extract(nil, transcript)

	if len(got.PestIssue) > 255 {
		t.Errorf("pest issue length %d exceeds 255", len(got.PestIssue))
	}
	if got.PestIssue == "" {
		t.Error("expected fallback match")
	}
}

func TestExtractAnalysisWinsOverTranscript(t *testing.T) {
	analysis := analysisFromJSON(t, `{"custom_analysis_data": {"pest_issue": "termites"}}`)

	got := Extract(analysis, "we have a big spider problem")

	if got.PestIssue != "termites" {
		t.Errorf("analysis value should win, got %q", got.PestIssue)
	}
}

func TestQualificationParsing(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string // "true", "false", or "nil"
	}{
		{"boolean true", `{"custom_analysis_data":{"is_qualified":true}}`, "true"},
		{"boolean false", `{"custom_analysis_data":{"is_qualified":false}}`, "false"},
		{"string true", `{"custom_analysis_data":{"is_qualified":"true"}}`, "true"},
		{"string false", `{"custom_analysis_data":{"is_qualified":"false"}}`, "false"},
		{"garbage", `{"custom_analysis_data":{"is_qualified":"maybe"}}`, "nil"},
		{"absent", `{"custom_analysis_data":{}}`, "nil"},
		{"no data", `{}`, "nil"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analysisFromJSON(t, tc.raw).Qualification()
			switch tc.want {
			case "nil":
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
			case "true":
				if got == nil || !*got {
					t.Fatalf("expected true, got %v", got)
				}
			case "false":
				if got == nil || *got {
					t.Fatalf("expected false, got %v", got)
				}
			}
		})
	}
}

func TestParseWebhookNestedAndFlat(t *testing.T) {
	nested := []byte(`{"event":"call_started","call":{"call_id":"abc","from_number":"+15551234567"}}`)
	event, call, err := ParseWebhook(nested)
	if err != nil {
		t.Fatalf("nested parse: %v", err)
	}
	if event != EventCallStarted || call.CallID != "abc" {
		t.Fatalf("nested parse mismatch: %s %+v", event, call)
	}

	flat := []byte(`{"event":"call_ended","call_id":"def","duration_ms":125000}`)
	event, call, err = ParseWebhook(flat)
	if err != nil {
		t.Fatalf("flat parse: %v", err)
	}
	if event != EventCallEnded || call.CallID != "def" {
		t.Fatalf("flat parse mismatch: %s %+v", event, call)
	}
	if secs := call.DurationSeconds(); secs == nil || *secs != 125 {
		t.Fatalf("duration seconds = %v, want 125", secs)
	}
}

func TestAgentIdentifierFirstNonEmpty(t *testing.T) {
	call := &CallPayload{RetellLLMID: "llm_2"}
	if got := call.AgentIdentifier(); got != "llm_2" {
		t.Fatalf("agent identifier = %q", got)
	}
	call = &CallPayload{AgentID: " agent_1 ", RetellLLMID: "llm_2"}
	if got := call.AgentIdentifier(); got != "agent_1" {
		t.Fatalf("agent identifier = %q", got)
	}
	if got := (&CallPayload{}).AgentIdentifier(); got != "" {
		t.Fatalf("agent identifier = %q, want empty", got)
	}
}
