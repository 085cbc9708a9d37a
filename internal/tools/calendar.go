package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

// CalendarProvider bridges scheduling tools to the calendar service's REST
// API. Tenancy rides on X-Tenant-ID; booking creation carries the tool
// call's correlation id as Idempotency-Key so a retried turn cannot double
// book.
type CalendarProvider struct {
	baseURL string
	client  *http.Client
}

func NewCalendarProvider(baseURL string) *CalendarProvider {
	return &CalendarProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (p *CalendarProvider) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name: "list_providers",
			Description: "List available doctors and providers at the clinic. " +
				"Use this when the patient hasn't specified a doctor, or you need to find a doctor by specialty. " +
				"Returns provider names, IDs, and their specialties.",
			InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "specialty": {"type": "string", "description": "Optional specialty filter. Examples: 'cardiology', 'pediatrics', 'general practice'. Leave empty to list all."}
  }
}`),
		},
		{
			Name: "find_optimal_slots",
			Description: "Find available appointment slots for booking. " +
				"Use this to check availability for a specific provider or date range. " +
				"Returns a list of available time slots with slot IDs needed for booking. " +
				"ALWAYS call this before attempting to book - never assume availability.",
			InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "provider_name": {"type": "string", "description": "Doctor/provider name. Can be partial, e.g., 'Smith' or 'Dr. Patel'. If not provided, searches across all providers."},
    "provider_id": {"type": "string", "description": "Provider ID if known (from list_providers). More precise than name matching."},
    "date_from": {"type": "string", "description": "Start date in ISO format YYYY-MM-DD. Use this for 'tomorrow', 'next week', etc."},
    "date_to": {"type": "string", "description": "End date in ISO format YYYY-MM-DD. If not provided, defaults to same as date_from."},
    "time_preference": {"type": "string", "enum": ["morning", "afternoon", "evening", "any"], "description": "Preferred time of day. 'morning' = before noon, 'afternoon' = noon to 5pm, 'evening' = after 5pm."},
    "duration_minutes": {"type": "integer", "default": 30, "description": "Appointment duration in minutes. Default is 30."},
    "limit": {"type": "integer", "default": 5, "description": "Maximum number of slots to return. Default is 5."}
  }
}`),
		},
		{
			Name: "book_appointment",
			Description: "Book an appointment slot. REQUIRES: (1) A valid slot_id from find_optimal_slots, (2) Patient's name. " +
				"ALWAYS get explicit patient confirmation before calling this. " +
				"Returns booking confirmation with booking ID.",
			InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "slot_id": {"type": "string", "description": "The slot ID to book (from find_optimal_slots results)."},
    "patient_name": {"type": "string", "description": "Patient's full name."},
    "patient_phone": {"type": "string", "description": "Patient's phone number (optional but recommended)."},
    "patient_email": {"type": "string", "description": "Patient's email address (optional)."},
    "reason": {"type": "string", "description": "Reason for the appointment (e.g., 'checkup', 'back pain')."},
    "duration_minutes": {"type": "integer", "default": 30, "description": "Appointment duration in minutes. Default is 30."}
  },
  "required": ["slot_id", "patient_name"]
}`),
		},
		{
			Name: "cancel_appointment",
			Description: "Cancel an existing appointment. Requires the booking ID which the patient should provide. " +
				"ALWAYS confirm cancellation with the patient before calling this.",
			InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "booking_id": {"type": "string", "description": "The booking ID to cancel."},
    "reason": {"type": "string", "description": "Reason for cancellation (optional)."}
  },
  "required": ["booking_id"]
}`),
		},
		{
			Name: "get_booking",
			Description: "Get details of an existing appointment. Use this to check booking status or verify appointment details. " +
				"Can look up by booking ID (UUID) or confirmation number (6-char code).",
			InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "booking_id": {"type": "string", "description": "The booking ID (UUID) to look up."},
    "confirmation_number": {"type": "string", "description": "The 6-character confirmation number to look up."}
  }
}`),
		},
	}
}

func (p *CalendarProvider) Execute(ctx context.Context, tenantID uuid.UUID, call domain.ToolCall) (json.RawMessage, error) {
	switch call.Name {
	case "list_providers":
		return p.listProviders(ctx, tenantID, call.Input)
	case "find_optimal_slots":
		return p.findSlots(ctx, tenantID, call.Input)
	case "book_appointment":
		return p.book(ctx, tenantID, call)
	case "cancel_appointment":
		return p.cancel(ctx, tenantID, call.Input)
	case "get_booking":
		return p.getBooking(ctx, tenantID, call.Input)
	default:
		return nil, fmt.Errorf("tools.CalendarProvider.Execute(%s): %w", call.Name, domain.ErrUnknownTool)
	}
}

type providerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Specialty string `json:"specialty"`
}

func (p *CalendarProvider) listProviders(ctx context.Context, tenantID uuid.UUID, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		Specialty string `json:"specialty"`
	}
	decodeArgs(input, &args)

	var providers []providerInfo
	if err := p.do(ctx, tenantID, http.MethodGet, "/v1/providers", "", nil, &providers); err != nil {
		return nil, fmt.Errorf("tools.CalendarProvider.listProviders: %w", err)
	}

	if args.Specialty != "" {
		want := strings.ToLower(args.Specialty)
		filtered := providers[:0]
		for _, prov := range providers {
			if strings.Contains(strings.ToLower(prov.Specialty), want) {
				filtered = append(filtered, prov)
			}
		}
		providers = filtered
	}
	for i := range providers {
		if providers[i].Specialty == "" {
			providers[i].Specialty = "General"
		}
	}

	return json.Marshal(map[string]any{
		"providers": providers,
		"count":     len(providers),
	})
}

type slotSearchRequest struct {
	Provider        string `json:"provider"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	PreferMorning   bool   `json:"prefer_morning"`
	PreferAfternoon bool   `json:"prefer_afternoon"`
	DurationMinutes int    `json:"duration_minutes"`
	MaxResults      int    `json:"max_results"`
}

type slotSearchResponse struct {
	Provider *providerInfo `json:"provider"`
	Slots    []struct {
		SlotID          string  `json:"slot_id"`
		Start           string  `json:"start"`
		End             string  `json:"end"`
		DisplayTime     string  `json:"display_time"`
		DurationMinutes int     `json:"duration_minutes"`
		Score           float64 `json:"score"`
	} `json:"slots"`
	Message            string `json:"message"`
	NextAvailableAfter string `json:"next_available_after"`
}

func (p *CalendarProvider) findSlots(ctx context.Context, tenantID uuid.UUID, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		ProviderName    string `json:"provider_name"`
		ProviderID      string `json:"provider_id"`
		DateFrom        string `json:"date_from"`
		DateTo          string `json:"date_to"`
		TimePreference  string `json:"time_preference"`
		DurationMinutes int    `json:"duration_minutes"`
		Limit           int    `json:"limit"`
	}
	decodeArgs(input, &args)

	providerQuery := args.ProviderID
	if providerQuery == "" {
		providerQuery = args.ProviderName
	}
	dateTo := args.DateTo
	if dateTo == "" {
		dateTo = args.DateFrom
	}
	if args.DurationMinutes <= 0 {
		args.DurationMinutes = 30
	}
	if args.Limit <= 0 {
		args.Limit = 5
	}

	payload := slotSearchRequest{
		Provider:        providerQuery,
		StartDate:       args.DateFrom,
		EndDate:         dateTo,
		PreferMorning:   args.TimePreference == "morning",
		PreferAfternoon: args.TimePreference == "afternoon" || args.TimePreference == "evening",
		DurationMinutes: args.DurationMinutes,
		MaxResults:      args.Limit,
	}

	var resp slotSearchResponse
	if err := p.do(ctx, tenantID, http.MethodPost, "/v1/slots/search", "", payload, &resp); err != nil {
		return nil, fmt.Errorf("tools.CalendarProvider.findSlots: %w", err)
	}

	if len(resp.Slots) == 0 {
		message := resp.Message
		if message == "" {
			message = "No available slots found."
		}
		out := map[string]any{"slots": []any{}, "count": 0, "message": message}
		if resp.NextAvailableAfter != "" {
			out["next_available_after"] = resp.NextAvailableAfter
		}
		return json.Marshal(out)
	}

	slots := make([]map[string]any, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slot := map[string]any{
			"slot_id":          s.SlotID,
			"start_time":       s.Start,
			"end_time":         s.End,
			"display_time":     s.DisplayTime,
			"duration_minutes": s.DurationMinutes,
			"score":            s.Score,
		}
		if resp.Provider != nil {
			slot["provider_id"] = resp.Provider.ID
			slot["provider_name"] = resp.Provider.Name
		}
		slots = append(slots, slot)
	}

	return json.Marshal(map[string]any{
		"slots":    slots,
		"count":    len(slots),
		"provider": resp.Provider,
	})
}

// slotIDPattern finds where the ISO start time begins inside a composite
// slot id of the form "{provider_uuid}:{start_time_iso}".
var slotIDPattern = regexp.MustCompile(`:(\d{4}-\d{2}-\d{2}T)`)

func splitSlotID(slotID string) (providerID, startTime string) {
	loc := slotIDPattern.FindStringIndex(slotID)
	if loc == nil {
		return slotID, ""
	}
	return slotID[:loc[0]], slotID[loc[0]+1:]
}

type bookingRequest struct {
	ProviderID   string `json:"provider_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone,omitempty"`
	PatientEmail string `json:"patient_email,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Timezone     string `json:"timezone"`
}

type bookingResponse struct {
	Success            *bool  `json:"success"`
	ID                 string `json:"id"`
	ConfirmationNumber string `json:"confirmation_number"`
	ProviderName       string `json:"provider_name"`
	StartTime          string `json:"start_time"`
	Message            string `json:"message"`
	Error              string `json:"error"`
	ErrorCode          string `json:"error_code"`
	Alternatives       []struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"alternatives"`
}

func (p *CalendarProvider) book(ctx context.Context, tenantID uuid.UUID, call domain.ToolCall) (json.RawMessage, error) {
	var args struct {
		SlotID          string `json:"slot_id"`
		PatientName     string `json:"patient_name"`
		PatientPhone    string `json:"patient_phone"`
		PatientEmail    string `json:"patient_email"`
		Reason          string `json:"reason"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	decodeArgs(call.Input, &args)

	if args.SlotID == "" {
		return rejection("missing_slot_id", "slot_id is required to book an appointment")
	}
	if args.PatientName == "" {
		return rejection("missing_patient_name", "patient_name is required to book an appointment")
	}
	if args.DurationMinutes <= 0 {
		args.DurationMinutes = 30
	}

	providerID, startTime := splitSlotID(args.SlotID)
	if startTime == "" {
		return rejection("invalid_slot_id", "slot_id must come from find_optimal_slots")
	}

	endTime := startTime
	if start, err := time.Parse("2006-01-02T15:04:05", startTime); err == nil {
		endTime = start.Add(time.Duration(args.DurationMinutes) * time.Minute).Format("2006-01-02T15:04:05")
	}

	payload := bookingRequest{
		ProviderID:   providerID,
		StartTime:    startTime,
		EndTime:      endTime,
		PatientName:  args.PatientName,
		PatientPhone: args.PatientPhone,
		PatientEmail: args.PatientEmail,
		Reason:       args.Reason,
		Timezone:     "America/New_York",
	}

	var resp bookingResponse
	if err := p.do(ctx, tenantID, http.MethodPost, "/v1/bookings", call.CallID, payload, &resp); err != nil {
		return nil, fmt.Errorf("tools.CalendarProvider.book: %w", err)
	}

	if resp.Success != nil && !*resp.Success {
		code := resp.ErrorCode
		if code == "" {
			code = "booking_failed"
		}
		message := resp.Error
		if message == "" {
			message = resp.Message
		}
		alternatives := make([]map[string]string, 0, len(resp.Alternatives))
		for _, alt := range resp.Alternatives {
			alternatives = append(alternatives, map[string]string{
				"start_time": alt.Start,
				"end_time":   alt.End,
			})
		}
		return json.Marshal(map[string]any{
			"success":      false,
			"error":        code,
			"message":      message,
			"alternatives": alternatives,
		})
	}

	message := resp.Message
	if message == "" {
		message = "Appointment booked successfully"
	}
	return json.Marshal(map[string]any{
		"success":             true,
		"booking_id":          resp.ID,
		"confirmation_number": resp.ConfirmationNumber,
		"message":             message,
		"confirmation": map[string]string{
			"provider_name":       resp.ProviderName,
			"start_time":          resp.StartTime,
			"patient_name":        args.PatientName,
			"confirmation_number": resp.ConfirmationNumber,
		},
	})
}

func (p *CalendarProvider) cancel(ctx context.Context, tenantID uuid.UUID, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		BookingID string `json:"booking_id"`
		Reason    string `json:"reason"`
	}
	decodeArgs(input, &args)

	if args.BookingID == "" {
		return rejection("missing_booking_id", "booking_id is required to cancel an appointment")
	}

	var body any
	if args.Reason != "" {
		body = map[string]string{"reason": args.Reason}
	}

	var resp struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}
	path := "/v1/bookings/" + url.PathEscape(args.BookingID)
	if err := p.do(ctx, tenantID, http.MethodDelete, path, "", body, &resp); err != nil {
		return nil, fmt.Errorf("tools.CalendarProvider.cancel: %w", err)
	}

	return json.Marshal(map[string]any{
		"success":    true,
		"booking_id": args.BookingID,
		"message":    "Appointment cancelled successfully",
	})
}

func (p *CalendarProvider) getBooking(ctx context.Context, tenantID uuid.UUID, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		BookingID          string `json:"booking_id"`
		ConfirmationNumber string `json:"confirmation_number"`
	}
	decodeArgs(input, &args)

	if args.BookingID == "" && args.ConfirmationNumber == "" {
		return rejection("missing_identifier", "booking_id or confirmation_number is required")
	}

	path := "/v1/bookings/" + url.PathEscape(args.BookingID)
	identifier := args.BookingID
	if args.BookingID == "" {
		path = "/v1/bookings/confirmation/" + url.PathEscape(args.ConfirmationNumber)
		identifier = args.ConfirmationNumber
	}

	var booking json.RawMessage
	err := p.do(ctx, tenantID, http.MethodGet, path, "", nil, &booking)
	switch {
	case err == nil:
		return json.Marshal(map[string]any{"found": true, "booking": booking})
	case errors.Is(err, domain.ErrNotFound):
		return json.Marshal(map[string]any{
			"found":   false,
			"message": fmt.Sprintf("No booking found with: %s", identifier),
		})
	default:
		return nil, fmt.Errorf("tools.CalendarProvider.getBooking: %w", err)
	}
}

// do issues one request. idempotencyKey is sent as Idempotency-Key when
// non-empty. A 404 maps to domain.ErrNotFound; other non-2xx statuses are
// plain errors.
func (p *CalendarProvider) do(ctx context.Context, tenantID uuid.UUID, method, path, idempotencyKey string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Tenant-ID", tenantID.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// decodeArgs is lossy on purpose: a malformed argument payload leaves the
// zero value and validation reports the missing field back to the model.
func decodeArgs(input json.RawMessage, out any) {
	if len(input) == 0 {
		return
	}
	_ = json.Unmarshal(input, out)
}

// rejection is a model-correctable refusal: it comes back as a successful
// execution whose payload tells the model what to fix.
func rejection(code, message string) (json.RawMessage, error) {
	return json.Marshal(map[string]string{"error": code, "message": message})
}
