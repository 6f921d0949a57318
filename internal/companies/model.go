package companies

import "strings"

// company_settings keys read by the webhook processor.
const (
	SettingInboundAgentID        = "retell_inbound_agent_id"
	SettingCallSummaryEnabled    = "call_summary_emails_enabled"
	SettingCallSummaryRecipients = "call_summary_email_recipients"
)

// NotificationSettings holds a tenant's call-summary email preferences.
type NotificationSettings struct {
	Enabled    bool
	Recipients []string
}

// ShouldNotify reports whether summaries are enabled with at least one
// recipient configured.
func (n NotificationSettings) ShouldNotify() bool {
	return n.Enabled && len(n.Recipients) > 0
}

// ParseRecipients splits a comma-separated recipient list, dropping empties.
func ParseRecipients(raw string) []string {
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(r); t != "" {
			out = append(out, t)
		}
	}
	return out
}
