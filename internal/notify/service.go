package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apexpest/crm-platform/internal/companies"
	"github.com/apexpest/crm-platform/pkg/logging"
)

// CallSummary carries everything the summary email shows about a finished
// call. Optional fields are left empty and omitted from the rendered email.
type CallSummary struct {
	CallID               string
	CustomerName         string
	CustomerPhone        string
	CallStatus           string
	DurationSeconds      *int64
	EndedAt              time.Time
	Sentiment            string
	Summary              string
	PestIssue            string
	StreetAddress        string
	HomeSize             string
	YardSize             string
	PreferredServiceTime string
	RecordingURL         string
	DisconnectReason     string
	LeadID               string
}

// Service sends call-summary notifications to company staff.
type Service struct {
	email     EmailSender
	companies companies.Store
	logger    *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, companyStore companies.Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:     email,
		companies: companyStore,
		logger:    logger,
	}
}

// SendCallSummary emails the call summary to the company's configured
// recipients. It is a no-op when summaries are disabled or no recipients are
// set. Individual send failures are logged and counted, not propagated per
// recipient; an aggregate error is returned when any send failed.
func (s *Service) SendCallSummary(ctx context.Context, companyID uuid.UUID, sum CallSummary) error {
	if s.email == nil || s.companies == nil {
		s.logger.Debug("notify: email or company store not configured, skipping call summary")
		return nil
	}

	settings, err := s.companies.NotificationSettings(ctx, companyID)
	if err != nil {
		s.logger.Error("notify: failed to load notification settings", "error", err, "company_id", companyID)
		return fmt.Errorf("notify: load settings: %w", err)
	}
	if !settings.ShouldNotify() {
		s.logger.Debug("notify: call summaries disabled for company", "company_id", companyID)
		return nil
	}

	companyName, err := s.companies.CompanyName(ctx, companyID)
	if err != nil {
		s.logger.Warn("notify: failed to load company name", "error", err, "company_id", companyID)
		companyName = "Unknown Company"
	}

	caller := sum.CustomerName
	if caller == "" {
		caller = sum.CustomerPhone
	}

	subject := fmt.Sprintf("Call Summary - %s", caller)
	body := s.buildBody(companyName, sum)
	html := s.buildHTML(companyName, sum)

	sent := 0
	for _, recipient := range settings.Recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
			HTML:    html,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send call summary", "error", err, "to", recipient, "call_id", sum.CallID)
			continue
		}
		sent++
	}

	s.logger.Info("notify: call summary emails sent",
		"call_id", sum.CallID,
		"company_id", companyID,
		"sent", sent,
		"recipients", len(settings.Recipients))

	if sent < len(settings.Recipients) {
		return fmt.Errorf("notify: %d of %d call summary email(s) failed", len(settings.Recipients)-sent, len(settings.Recipients))
	}
	return nil
}

func (s *Service) buildBody(companyName string, sum CallSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inbound call summary for %s\n\n", companyName)
	fmt.Fprintf(&b, "Caller: %s\n", sum.CustomerPhone)
	fmt.Fprintf(&b, "Status: %s\n", sum.CallStatus)
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(sum.DurationSeconds))
	fmt.Fprintf(&b, "Ended: %s\n", sum.EndedAt.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "Sentiment: %s\n", sum.Sentiment)

	appendLine := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	appendLine("Pest Issue", sum.PestIssue)
	appendLine("Address", sum.StreetAddress)
	appendLine("Home Size", sum.HomeSize)
	appendLine("Yard Size", sum.YardSize)
	appendLine("Preferred Service Time", sum.PreferredServiceTime)
	appendLine("Disconnect Reason", sum.DisconnectReason)
	appendLine("Recording", sum.RecordingURL)

	if sum.Summary != "" {
		fmt.Fprintf(&b, "\nSummary:\n%s\n", sum.Summary)
	}

	fmt.Fprintf(&b, "\n- %s CRM", companyName)
	return b.String()
}

func (s *Service) buildHTML(companyName string, sum CallSummary) string {
	row := func(label, value string) string {
		if value == "" {
			return ""
		}
		return fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`, label, value)
	}

	summaryBlock := ""
	if sum.Summary != "" {
		summaryBlock = fmt.Sprintf(`<p style="background: #f8fafc; padding: 12px; border-radius: 8px; border-left: 4px solid #1e40af;">%s</p>`, sum.Summary)
	}

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #1e40af;">Call Summary Report</h2>
<p>Inbound call handled for <strong>%s</strong>.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  %s%s%s%s%s%s%s%s%s%s
</table>
%s
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">- %s CRM</p>
</div>`,
		companyName,
		row("Caller", sum.CustomerPhone),
		row("Status", sum.CallStatus),
		row("Duration", formatDuration(sum.DurationSeconds)),
		row("Ended", sum.EndedAt.Format("January 2, 2006 at 3:04 PM")),
		row("Sentiment", sum.Sentiment),
		row("Pest Issue", sum.PestIssue),
		row("Address", sum.StreetAddress),
		row("Preferred Service Time", sum.PreferredServiceTime),
		row("Disconnect Reason", sum.DisconnectReason),
		row("Recording", sum.RecordingURL),
		summaryBlock,
		companyName)
}

// formatDuration renders seconds as m:ss, or N/A when unknown.
func formatDuration(seconds *int64) string {
	if seconds == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d:%02d", *seconds/60, *seconds%60)
}
