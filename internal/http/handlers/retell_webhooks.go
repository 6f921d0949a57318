package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/apexpest/crm-platform/internal/calls"
	"github.com/apexpest/crm-platform/internal/companies"
	"github.com/apexpest/crm-platform/internal/customers"
	"github.com/apexpest/crm-platform/internal/events"
	"github.com/apexpest/crm-platform/internal/leads"
	"github.com/apexpest/crm-platform/internal/notify"
	"github.com/apexpest/crm-platform/internal/observability/metrics"
	"github.com/apexpest/crm-platform/internal/telephony"
	"github.com/apexpest/crm-platform/pkg/logging"
)

// DedupStore records processed webhook deliveries.
type DedupStore interface {
	AlreadyProcessed(ctx context.Context, provider, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

// Notifier dispatches call-summary notifications.
type Notifier interface {
	SendCallSummary(ctx context.Context, companyID uuid.UUID, sum notify.CallSummary) error
}

// RetellWebhookConfig wires the webhook handler's dependencies.
type RetellWebhookConfig struct {
	Secret        string
	Companies     companies.Store
	Customers     customers.Repository
	Leads         leads.Repository
	Calls         calls.Repository
	Processed     DedupStore
	Notifier      Notifier
	Metrics       *metrics.TelephonyMetrics
	Logger        *logging.Logger
	NotifyTimeout time.Duration
}

// RetellWebhookHandler processes the inbound call event stream: call_started
// opens a lead and call record, call_ended closes the record, call_analyzed
// applies post-call analysis, qualification, and notifications.
type RetellWebhookHandler struct {
	secret        string
	companies     companies.Store
	customers     customers.Repository
	leads         leads.Repository
	calls         calls.Repository
	processed     DedupStore
	notifier      Notifier
	metrics       *metrics.TelephonyMetrics
	logger        *logging.Logger
	notifyTimeout time.Duration
}

func NewRetellWebhookHandler(cfg RetellWebhookConfig) *RetellWebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 15 * time.Second
	}
	return &RetellWebhookHandler{
		secret:        cfg.Secret,
		companies:     cfg.Companies,
		customers:     cfg.Customers,
		leads:         cfg.Leads,
		calls:         cfg.Calls,
		processed:     cfg.Processed,
		notifier:      cfg.Notifier,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		notifyTimeout: cfg.NotifyTimeout,
	}
}

// Handle is the POST /webhooks/retell/inbound entrypoint.
func (h *RetellWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := telephony.VerifySignature(h.secret, payload, r.Header.Get(telephony.SignatureHeader)); err != nil {
		if errors.Is(err, telephony.ErrSecretNotConfigured) {
			h.logger.Error("retell webhook secret not configured")
			writeError(w, http.StatusInternalServerError, "webhook secret not configured")
			return
		}
		h.logger.Warn("invalid retell webhook signature", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	event, call, err := telephony.ParseWebhook(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if call.CallID == "" {
		writeError(w, http.StatusBadRequest, "missing call_id")
		return
	}

	logger := h.logger.With("event", event, "call_id", call.CallID)
	status := "ok"
	defer func() {
		h.metrics.ObserveWebhook(event, status)
		h.metrics.ObserveWebhookLatency(event, time.Since(start).Seconds())
	}()

	eventID := events.CallEventID(event, call.CallID)
	if h.processed != nil {
		// Dedup is best effort: a read failure must not drop the event.
		seen, err := h.processed.AlreadyProcessed(r.Context(), events.ProviderRetell, eventID)
		if err != nil {
			logger.Warn("processed-event lookup failed", "error", err)
		} else if seen {
			logger.Info("duplicate webhook delivery ignored")
			status = "duplicate"
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Event already processed",
			})
			return
		}
	}

	var handled bool
	switch event {
	case telephony.EventCallStarted:
		handled = h.handleCallStarted(r.Context(), w, call, logger)
	case telephony.EventCallEnded:
		handled = h.handleCallEnded(r.Context(), w, call, logger)
	case telephony.EventCallAnalyzed:
		handled = h.handleCallAnalyzed(r.Context(), w, call, logger)
	default:
		logger.Info("unhandled webhook event type")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Event type not handled",
		})
		return
	}

	if !handled {
		status = "error"
		return
	}

	if h.processed != nil {
		if _, err := h.processed.MarkProcessed(r.Context(), events.ProviderRetell, eventID); err != nil {
			logger.Warn("failed to mark event processed", "error", err)
		}
	}
}

// handleCallStarted opens a lead and a call record for the inbound caller.
// Returns false when an error response was written.
func (h *RetellWebhookHandler) handleCallStarted(ctx context.Context, w http.ResponseWriter, call *telephony.CallPayload, logger *logging.Logger) bool {
	phone := telephony.NormalizePhone(call.FromNumber)
	if phone == "" {
		logger.Warn("invalid caller phone number", "from_number", call.FromNumber)
		writeError(w, http.StatusBadRequest, "invalid phone number format")
		return false
	}

	companyID, err := h.companies.ResolveInboundAgent(ctx, call.AgentIdentifier())
	if err != nil {
		if errors.Is(err, companies.ErrCompanyNotFound) {
			logger.Warn("no company found for agent", "agent_id", call.AgentIdentifier())
			writeError(w, http.StatusNotFound, "company not found for inbound agent ID")
			return false
		}
		logger.Error("company resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve company")
		return false
	}

	customer, err := h.customers.FindByPhone(ctx, phone)
	if errors.Is(err, customers.ErrCustomerNotFound) {
		customer, err = h.customers.CreatePlaceholder(ctx, companyID, phone)
		if err == nil {
			logger.Info("created customer for inbound caller", "customer_id", customer.ID)
		}
	}
	if err != nil {
		logger.Error("customer resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create customer")
		return false
	}

	lead, err := h.leads.Create(ctx, &leads.CreateLeadRequest{
		CompanyID:  companyID,
		CustomerID: customer.ID,
		StartedAt:  call.StartTime(time.Now()),
	})
	if err != nil {
		logger.Error("lead creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create lead")
		return false
	}
	h.metrics.ObserveLeadCreated()

	recordID, err := h.calls.Create(ctx, &calls.NewCallRecord{
		CallID:          call.CallID,
		LeadID:          lead.ID,
		CustomerID:      customer.ID,
		PhoneNumber:     phone,
		FromNumber:      call.FromNumber,
		StartTimestamp:  call.StartTime(time.Now()),
		RetellVariables: call.DynamicVariables,
		OptOut:          call.OptOutSensitive,
	})
	if err != nil {
		logger.Error("call record creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create call record")
		return false
	}

	logger.Info("inbound lead created", "lead_id", lead.ID, "call_record_id", recordID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"call_record_id": recordID,
		"lead_id":        lead.ID,
		"action":         "inbound_lead_created",
	})
	return true
}

// handleCallEnded closes the call record and logs the contact on the lead.
func (h *RetellWebhookHandler) handleCallEnded(ctx context.Context, w http.ResponseWriter, call *telephony.CallPayload, logger *logging.Logger) bool {
	callStatus := call.CallStatus
	if callStatus == "" {
		callStatus = calls.StatusCompleted
	}
	endedAt := call.EndTime(time.Now())
	duration := call.DurationSeconds()

	ref, err := h.calls.MarkEnded(ctx, call.CallID, calls.EndedUpdate{
		CallStatus:       callStatus,
		EndTimestamp:     endedAt,
		DurationSeconds:  duration,
		BillableSeconds:  calls.BillableSeconds(duration),
		DisconnectReason: call.DisconnectionReason,
		RetellVariables:  call.DynamicVariables,
		OptOut:           call.OptOutSensitive,
	})
	if err != nil {
		if errors.Is(err, calls.ErrCallNotFound) {
			// Event arrived before call_started or for a purged call; the
			// provider gets a 200 so it stops retrying.
			logger.Warn("call_ended for unknown call record")
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Call record not found",
			})
			return true
		}
		logger.Error("call record update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update call record")
		return false
	}

	if ref.LeadID != uuid.Nil {
		note := leads.ContactNote(endedAt, callStatus, call.DisconnectionReason)
		if err := h.leads.RecordContact(ctx, ref.LeadID, note); err != nil {
			logger.Warn("failed to record lead contact", "error", err, "lead_id", ref.LeadID)
		}
	}

	logger.Info("inbound call ended", "call_record_id", ref.ID, "duration_seconds", duration)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"call_record_id": ref.ID,
		"action":         "inbound_call_ended",
	})
	return true
}

// handleCallAnalyzed applies post-call analysis: call record enrichment, lead
// qualification, conservative customer updates, and summary notifications.
func (h *RetellWebhookHandler) handleCallAnalyzed(ctx context.Context, w http.ResponseWriter, call *telephony.CallPayload, logger *logging.Logger) bool {
	ext := telephony.Extract(call.CallAnalysis, call.Transcript)

	var analysisJSON []byte
	if call.CallAnalysis != nil {
		analysisJSON, _ = json.Marshal(call.CallAnalysis)
	}

	ref, err := h.calls.MarkAnalyzed(ctx, call.CallID, calls.AnalyzedUpdate{
		RecordingURL:         call.RecordingURL,
		Transcript:           call.Transcript,
		CallAnalysis:         analysisJSON,
		Sentiment:            ext.Sentiment,
		HomeSize:             ext.HomeSize,
		YardSize:             ext.YardSize,
		PestIssue:            ext.PestIssue,
		StreetAddress:        ext.StreetAddress,
		PreferredServiceTime: ext.PreferredServiceTime,
		RetellVariables:      call.DynamicVariables,
		OptOut:               call.OptOutSensitive,
	})
	if err != nil {
		if errors.Is(err, calls.ErrCallNotFound) {
			logger.Warn("call_analyzed for unknown call record")
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Call record not found",
			})
			return true
		}
		logger.Error("call record update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update call record")
		return false
	}

	if ref.LeadID != uuid.Nil {
		q := leads.BuildQualification(call.CallAnalysis.Qualification(), ext.Summary)
		if err := h.leads.ApplyQualification(ctx, ref.LeadID, q); err != nil {
			logger.Warn("failed to apply lead qualification", "error", err, "lead_id", ref.LeadID)
		}
	}

	customer := h.applyCustomerUpdates(ctx, ref.CustomerID, ext, logger)

	h.dispatchCallSummary(call, ext, customer, logger)

	logger.Info("inbound call analyzed", "call_record_id", ref.ID, "sentiment", ext.Sentiment)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"call_record_id": ref.ID,
		"action":         "inbound_call_analyzed",
	})
	return true
}

// applyCustomerUpdates merges extracted profile data into the customer under
// the conservative policy. Best effort: failures are logged, never surfaced.
func (h *RetellWebhookHandler) applyCustomerUpdates(ctx context.Context, customerID uuid.UUID, ext telephony.Extracted, logger *logging.Logger) *customers.Customer {
	if customerID == uuid.Nil {
		return nil
	}
	customer, err := h.customers.GetByID(ctx, customerID)
	if err != nil {
		logger.Warn("failed to fetch customer for merge", "error", err, "customer_id", customerID)
		return nil
	}

	update := customers.MergeUpdate(customer, customers.ExtractedProfile{
		FirstName: ext.CustomerFirstName,
		LastName:  ext.CustomerLastName,
		Street:    ext.StreetAddress,
		City:      ext.CustomerCity,
		State:     ext.CustomerState,
		Zip:       ext.CustomerZip,
	})
	if update.IsEmpty() {
		return customer
	}
	if err := h.customers.Apply(ctx, customer.ID, update); err != nil {
		logger.Warn("customer update failed", "error", err, "customer_id", customer.ID)
		return customer
	}
	applyUpdateLocally(customer, update)
	return customer
}

// applyUpdateLocally mirrors a persisted partial update onto the in-memory
// record so the notification shows fresh data without a re-read.
func applyUpdateLocally(c *customers.Customer, u customers.Update) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.FirstName, u.FirstName)
	set(&c.LastName, u.LastName)
	set(&c.Address, u.Address)
	set(&c.City, u.City)
	set(&c.State, u.State)
	set(&c.Zip, u.Zip)
}

// dispatchCallSummary fires the summary email in the background so slow email
// providers never delay the webhook acknowledgement.
func (h *RetellWebhookHandler) dispatchCallSummary(call *telephony.CallPayload, ext telephony.Extracted, customer *customers.Customer, logger *logging.Logger) {
	if h.notifier == nil || customer == nil {
		return
	}

	callStatus := call.CallStatus
	if callStatus == "" {
		callStatus = calls.StatusCompleted
	}

	sum := notify.CallSummary{
		CallID:               call.CallID,
		CustomerPhone:        customer.Phone,
		CallStatus:           callStatus,
		DurationSeconds:      call.DurationSeconds(),
		EndedAt:              call.EndTime(time.Now()),
		Sentiment:            ext.Sentiment,
		Summary:              ext.Summary,
		PestIssue:            ext.PestIssue,
		StreetAddress:        ext.StreetAddress,
		HomeSize:             ext.HomeSize,
		YardSize:             ext.YardSize,
		PreferredServiceTime: ext.PreferredServiceTime,
		RecordingURL:         call.RecordingURL,
		DisconnectReason:     call.DisconnectionReason,
	}
	if !customer.HasPlaceholderName() {
		sum.CustomerName = customer.FirstName + " " + customer.LastName
	}

	companyID := customer.CompanyID
	callID := call.CallID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.notifyTimeout)
		defer cancel()
		if err := h.notifier.SendCallSummary(ctx, companyID, sum); err != nil {
			logger.Warn("call summary notification failed", "error", err, "call_id", callID)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
