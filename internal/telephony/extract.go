package telephony

import (
	"regexp"
	"strings"
)

// Extracted carries the normalized fields pulled from the provider's analysis
// payload and transcript.
type Extracted struct {
	Sentiment            string
	Summary              string
	HomeSize             string
	YardSize             string
	PestIssue            string
	StreetAddress        string
	PreferredServiceTime string
	CustomerFirstName    string
	CustomerLastName     string
	CustomerCity         string
	CustomerState        string
	CustomerZip          string
}

const pestIssueMaxLen = 255

// pestIssueRe matches common pest names plus up to 50 chars of trailing
// context so the match carries enough detail to be useful.
var pestIssueRe = regexp.MustCompile(`(?i)(ant|roach|cockroach|spider|termite|rodent|rat|mouse|wasp|bee|fly|mosquito|tick|flea|bed bug|pest|insect|bug).{0,50}`)

// Extract pulls structured fields from the post-call analysis, falling back to
// transcript keyword scanning for the pest issue. Pure and tolerant of any
// field being absent; safe to call with nil analysis and empty transcript.
func Extract(analysis *CallAnalysis, transcript string) Extracted {
	out := Extracted{Sentiment: "neutral"}

	if analysis != nil {
		if s := strings.TrimSpace(analysis.UserSentiment); s != "" {
			out.Sentiment = strings.ToLower(s)
		}
		out.Summary = strings.TrimSpace(analysis.CallSummary)

		out.HomeSize = analysis.customString("home_size")
		out.YardSize = analysis.customString("yard_size")
		out.PestIssue = analysis.customString("pest_issue")
		out.StreetAddress = analysis.customString("customer_street_address")
		out.PreferredServiceTime = analysis.customString("preferred_service_time")
		out.CustomerFirstName = analysis.customString("customer_first_name")
		out.CustomerLastName = analysis.customString("customer_last_name")
		out.CustomerCity = analysis.customString("customer_city")
		out.CustomerState = analysis.customString("customer_state")
		out.CustomerZip = analysis.customString("customer_zip")
	}

	if out.PestIssue == "" && transcript != "" {
		if matches := pestIssueRe.FindAllString(transcript, -1); len(matches) > 0 {
			joined := strings.Join(matches, ", ")
			if len(joined) > pestIssueMaxLen {
				joined = joined[:pestIssueMaxLen]
			}
			out.PestIssue = joined
		}
	}

	return out
}
