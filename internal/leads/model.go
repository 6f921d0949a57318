package leads

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lead field values assigned to inbound phone leads.
const (
	SourceColdCall = "cold_call"
	TypePhoneCall  = "phone_call"

	StatusNew         = "new"
	StatusUnqualified = "unqualified"

	PriorityMedium = "medium"
)

// Lead represents a sales lead opened for an inbound call.
type Lead struct {
	ID              uuid.UUID  `json:"id"`
	CompanyID       uuid.UUID  `json:"company_id"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	Source          string     `json:"lead_source"`
	Type            string     `json:"lead_type"`
	Status          string     `json:"lead_status"`
	Priority        string     `json:"priority"`
	Comments        string     `json:"comments"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateLeadRequest carries the fields needed to open a new inbound lead.
// Source, type, status, and priority are fixed for this channel.
type CreateLeadRequest struct {
	CompanyID  uuid.UUID
	CustomerID uuid.UUID
	StartedAt  time.Time
}

// Validate validates the create lead request.
func (r *CreateLeadRequest) Validate() error {
	if r.CompanyID == uuid.Nil {
		return ErrMissingCompanyID
	}
	if r.CustomerID == uuid.Nil {
		return ErrMissingCustomerID
	}
	return nil
}

// InitialComment is the first comment line written to a new inbound lead.
func (r *CreateLeadRequest) InitialComment() string {
	return fmt.Sprintf("Inbound call started at %s", r.StartedAt.UTC().Format(time.RFC3339))
}

// ContactNote builds the one-line outcome summary appended when a call ends.
func ContactNote(endedAt time.Time, callStatus, disconnectReason string) string {
	outcome := callStatus
	if outcome == "" {
		outcome = "ended"
	}
	note := fmt.Sprintf("Inbound call on %s - Status: %s", endedAt.UTC().Format(time.RFC3339), outcome)
	if disconnectReason != "" {
		note += fmt.Sprintf(" (%s)", disconnectReason)
	}
	return note
}

// Qualification is the outcome of post-call analysis applied to a lead.
type Qualification struct {
	// Status the lead moves to: new when qualified or undetermined,
	// unqualified when the analysis rules it out.
	Status string
	// Notes appended to the lead's comment history, in order.
	Notes []string
}

// BuildQualification maps the analysis verdict to a lead status change plus
// comment lines. isQualified is nil when the analysis gave no verdict; the
// lead then stays in its current status with no qualification note.
func BuildQualification(isQualified *bool, summary string) Qualification {
	q := Qualification{Status: StatusNew}
	if summary != "" {
		q.Notes = append(q.Notes, fmt.Sprintf("Call Analysis: %s", summary))
	}
	switch {
	case isQualified == nil:
	case *isQualified:
		q.Notes = append(q.Notes, "AI Qualification: QUALIFIED - Ready for follow-up")
	default:
		q.Status = StatusUnqualified
		q.Notes = append(q.Notes, "AI Qualification: UNQUALIFIED - Not a sales opportunity")
	}
	return q
}
