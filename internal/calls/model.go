package calls

import (
	"time"

	"github.com/google/uuid"
)

// Call record statuses. The provider reports terminal statuses on call_ended;
// StatusCompleted is the fallback when it reports none.
const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// CallRecord is the persisted representation of one phone call and its
// lifecycle/analysis data. Exactly one record exists per provider call_id.
type CallRecord struct {
	ID                         uuid.UUID  `json:"id"`
	CallID                     string     `json:"call_id"`
	LeadID                     uuid.UUID  `json:"lead_id"`
	CustomerID                 uuid.UUID  `json:"customer_id"`
	PhoneNumber                string     `json:"phone_number"`
	FromNumber                 string     `json:"from_number"`
	CallStatus                 string     `json:"call_status"`
	StartTimestamp             time.Time  `json:"start_timestamp"`
	EndTimestamp               *time.Time `json:"end_timestamp,omitempty"`
	DurationSeconds            *int64     `json:"duration_seconds,omitempty"`
	BillableDurationSeconds    *int64     `json:"billable_duration_seconds,omitempty"`
	DisconnectReason           string     `json:"disconnect_reason,omitempty"`
	RecordingURL               string     `json:"recording_url,omitempty"`
	Transcript                 string     `json:"transcript,omitempty"`
	CallAnalysis               []byte     `json:"call_analysis,omitempty"`
	Sentiment                  string     `json:"sentiment,omitempty"`
	HomeSize                   string     `json:"home_size,omitempty"`
	YardSize                   string     `json:"yard_size,omitempty"`
	PestIssue                  string     `json:"pest_issue,omitempty"`
	StreetAddress              string     `json:"street_address,omitempty"`
	PreferredServiceTime       string     `json:"preferred_service_time,omitempty"`
	RetellVariables            []byte     `json:"retell_variables,omitempty"`
	OptOutSensitiveDataStorage bool       `json:"opt_out_sensitive_data_storage"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// NewCallRecord is the insert payload for call_started.
type NewCallRecord struct {
	CallID          string
	LeadID          uuid.UUID
	CustomerID      uuid.UUID
	PhoneNumber     string // normalized caller number
	FromNumber      string // caller number as received from the provider
	StartTimestamp  time.Time
	RetellVariables []byte
	OptOut          bool
}

// EndedUpdate is the partial update applied on call_ended.
type EndedUpdate struct {
	CallStatus       string
	EndTimestamp     time.Time
	DurationSeconds  *int64
	BillableSeconds  int64
	DisconnectReason string
	RetellVariables  []byte
	OptOut           bool
}

// AnalyzedUpdate is the partial update applied on call_analyzed.
type AnalyzedUpdate struct {
	RecordingURL         string
	Transcript           string
	CallAnalysis         []byte
	Sentiment            string
	HomeSize             string
	YardSize             string
	PestIssue            string
	StreetAddress        string
	PreferredServiceTime string
	RetellVariables      []byte
	OptOut               bool
}

// CallRef identifies a call record and its associated lead and customer.
type CallRef struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	CustomerID uuid.UUID
}
