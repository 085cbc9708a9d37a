package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SchedulingEntities are the booking-flow values the router may extract.
// All fields are optional; a nil pointer means "not stated".
type SchedulingEntities struct {
	ProviderName    *string `json:"provider_name,omitempty"`
	Date            *string `json:"date,omitempty"` // ISO YYYY-MM-DD
	Time            *string `json:"time,omitempty"` // 24h HH:MM
	DateRaw         *string `json:"date_raw,omitempty"`
	TimeRaw         *string `json:"time_raw,omitempty"`
	IsFlexible      *bool   `json:"is_flexible,omitempty"`
	Reason          *string `json:"reason,omitempty"`
	AppointmentType *string `json:"appointment_type,omitempty"`
	BookingID       *string `json:"booking_id,omitempty"`
	SelectedOption  *string `json:"selected_option,omitempty"`
}

// FAQEntities are the knowledge-question values the router may extract.
type FAQEntities struct {
	Topic *string `json:"faq_topic,omitempty"`
}

// ContactEntities are patient identity values, shared across domains.
type ContactEntities struct {
	PatientName  *string `json:"patient_name,omitempty"`
	PatientPhone *string `json:"patient_phone,omitempty"`
	PatientEmail *string `json:"patient_email,omitempty"`
}

// EntitySet is the closed set of entities a conversation can accumulate.
// The embedded per-domain structs flatten to a single JSON object, so the
// router's structured output decodes directly into it. Keys outside the
// closed set are rejected at decode time, never silently stored.
type EntitySet struct {
	SchedulingEntities
	FAQEntities
	ContactEntities
}

// DecodeEntitySet parses a raw entities object, rejecting unknown keys.
func DecodeEntitySet(raw json.RawMessage) (EntitySet, error) {
	var set EntitySet
	if len(raw) == 0 {
		return set, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&set); err != nil {
		return EntitySet{}, fmt.Errorf("domain.DecodeEntitySet: %w", err)
	}

	return set, nil
}

// Merge overwrites each field of e with the corresponding field of src when
// src has it set. Last write wins per key; keys are never cleared. Merging
// the same set twice is a no-op the second time, and merges within one turn
// commute per key.
func (e *EntitySet) Merge(src EntitySet) {
	mergeStr(&e.ProviderName, src.ProviderName)
	mergeStr(&e.Date, src.Date)
	mergeStr(&e.Time, src.Time)
	mergeStr(&e.DateRaw, src.DateRaw)
	mergeStr(&e.TimeRaw, src.TimeRaw)
	mergeStr(&e.Reason, src.Reason)
	mergeStr(&e.AppointmentType, src.AppointmentType)
	mergeStr(&e.BookingID, src.BookingID)
	mergeStr(&e.SelectedOption, src.SelectedOption)
	mergeStr(&e.Topic, src.Topic)
	mergeStr(&e.PatientName, src.PatientName)
	mergeStr(&e.PatientPhone, src.PatientPhone)
	mergeStr(&e.PatientEmail, src.PatientEmail)

	if src.IsFlexible != nil {
		v := *src.IsFlexible
		e.IsFlexible = &v
	}
}

func mergeStr(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Empty reports whether no entity has been collected.
func (e EntitySet) Empty() bool {
	return e.ProviderName == nil && e.Date == nil && e.Time == nil &&
		e.DateRaw == nil && e.TimeRaw == nil && e.IsFlexible == nil &&
		e.Reason == nil && e.AppointmentType == nil && e.BookingID == nil &&
		e.SelectedOption == nil && e.Topic == nil && e.PatientName == nil &&
		e.PatientPhone == nil && e.PatientEmail == nil
}

// Summary renders the collected values as a short human-readable line for
// prompt injection, e.g. "Provider: Smith, Date: 2026-09-01, Patient: John".
func (e EntitySet) Summary() string {
	var parts []string

	add := func(label string, v *string) {
		if v != nil && *v != "" {
			parts = append(parts, label+": "+*v)
		}
	}

	add("Provider", e.ProviderName)
	add("Date", e.Date)
	add("Time", e.Time)
	add("Reason", e.Reason)
	add("Appointment type", e.AppointmentType)
	add("Booking", e.BookingID)
	add("Topic", e.Topic)
	add("Patient", e.PatientName)
	add("Phone", e.PatientPhone)
	add("Email", e.PatientEmail)

	if e.IsFlexible != nil && *e.IsFlexible {
		parts = append(parts, "Time is flexible")
	}

	if len(parts) == 0 {
		return "Nothing collected yet"
	}

	return strings.Join(parts, ", ")
}
