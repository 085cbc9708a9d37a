package router

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

// routeToolSchema forces structured classification output. Required fields
// and enums mirror the route decision model exactly; the provider rejects
// outputs that do not conform.
const routeToolSchema = `{
  "type": "object",
  "properties": {
    "domain": {
      "type": "string",
      "enum": ["scheduling", "faq", "crisis", "handoff", "greeting", "goodbye", "out_of_scope"],
      "description": "The domain this message belongs to"
    },
    "confidence": {
      "type": "number",
      "minimum": 0,
      "maximum": 1,
      "description": "Confidence in the classification from 0.0 to 1.0"
    },
    "sub_intent": {
      "type": "string",
      "enum": ["book", "cancel", "reschedule", "check", "provide_info", "confirm_yes", "confirm_no", "correction", "select_option", "question"],
      "description": "More specific intent within the domain"
    },
    "entities": {
      "type": "object",
      "properties": {
        "provider_name": {"type": "string", "description": "Doctor/provider name (e.g., 'Smith', 'Dr. Patel')"},
        "date": {"type": "string", "description": "Appointment date in ISO format YYYY-MM-DD"},
        "time": {"type": "string", "description": "Appointment time in 24h format HH:MM"},
        "date_raw": {"type": "string", "description": "Original date text as spoken (e.g., 'next Tuesday')"},
        "time_raw": {"type": "string", "description": "Original time text as spoken (e.g., '2pm', 'morning')"},
        "is_flexible": {"type": "boolean", "description": "Whether the time is flexible/approximate"},
        "patient_name": {"type": "string", "description": "Patient's full name"},
        "patient_phone": {"type": "string", "description": "Patient's phone number"},
        "patient_email": {"type": "string", "description": "Patient's email address"},
        "reason": {"type": "string", "description": "Reason for appointment (e.g., 'back pain', 'checkup')"},
        "appointment_type": {"type": "string", "description": "Type of appointment (e.g., 'follow_up', 'new_patient')"},
        "booking_id": {"type": "string", "description": "Existing booking ID for cancellation/reschedule"},
        "faq_topic": {"type": "string", "description": "Topic of FAQ question (e.g., 'hours', 'insurance')"},
        "selected_option": {"type": "string", "description": "Which option patient picked (e.g., '1', 'first', '3pm')"}
      },
      "description": "Extracted entities from the message"
    },
    "urgency": {
      "type": "string",
      "enum": ["low", "medium", "high"],
      "description": "Urgency level of the message"
    }
  },
  "required": ["domain", "confidence", "sub_intent"]
}`

func routeTool() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "route_message",
		Description: "Classify patient message and extract key information for routing to the appropriate agent.",
		InputSchema: json.RawMessage(routeToolSchema),
	}
}

const systemPromptTemplate = `You are the intake router for a medical clinic's AI receptionist system.

Your ONLY job is to classify the patient's message and extract any relevant information.
You do NOT write a response to the patient. You only analyze their message.

DOMAINS:
- scheduling: Patient wants to BOOK, CANCEL, RESCHEDULE, or CHECK an appointment.
  This includes any message that mentions doctors, appointments, availability, times, or dates
  in the context of wanting to see someone.
- faq: Patient is ASKING A QUESTION about the clinic - hours, location, insurance accepted,
  services offered, parking, what to bring, policies, costs. They want information, not an appointment.
- crisis: Patient is expressing self-harm, suicidal thoughts, or acute emotional/psychological
  distress. Err on the side of caution - if in doubt, classify as crisis.
- handoff: Patient explicitly asks to speak with a real person, human, manager, supervisor,
  or front desk staff. Must be explicit - frustration alone is not a handoff request.
- greeting: Patient is saying hello, hi, good morning, etc. This is ONLY for the very first
  message or a standalone greeting with no other content.
- goodbye: Patient is ending the conversation - bye, thanks, that's all, etc.
- out_of_scope: Message is completely unrelated to healthcare or the clinic. Recipes, weather,
  homework, etc.

SUB-INTENTS (for scheduling domain):
- book: Wants a new appointment
- cancel: Wants to cancel an existing appointment
- reschedule: Wants to move an existing appointment
- check: Wants to know about an upcoming appointment
- provide_info: Answering a question the receptionist asked (giving name, date, time, doctor)
- confirm_yes: Confirming something (yes, correct, book it, sounds good, perfect)
- confirm_no: Rejecting something (no, wrong, that's not right, change it)
- correction: Correcting a misunderstanding (no I said Tuesday, not Dr. Smith - Dr. Patel)
- select_option: Picking from options shown (the first one, option 2, the 3pm one, Dr. Smith)

SUB-INTENTS (for faq domain):
- question: General question about the clinic

ENTITY EXTRACTION:
Extract ONLY what is explicitly stated. Never guess or infer.
- Dates: Convert relative dates using today = %s (%s)
  "tomorrow" = %s, "next Monday" = %s, etc.
- Times: Convert to 24h format. "2pm" = "14:00", "morning" = flexible
- Names: Extract as spoken. "Dr. Smith" -> "Smith", "Doctor Jane Smith" -> "Jane Smith"
- Phone: Extract any phone number format
- If something is ambiguous, omit it. Better to ask than to guess wrong.

CONVERSATION CONTEXT:
%s

Use the context to understand what the patient is responding to. If the receptionist just asked
"what time works for you?" and the patient says "3pm", that's provide_info, not a new booking request.`

// systemPrompt injects the current date anchors and the condensed session
// context into the classification prompt.
func systemPrompt(now time.Time, sessionContext string) string {
	tomorrow := now.AddDate(0, 0, 1)
	nextMonday := now.AddDate(0, 0, daysUntilNextMonday(now))

	if sessionContext == "" {
		sessionContext = "(no prior conversation)"
	}

	return fmt.Sprintf(systemPromptTemplate,
		now.Format("2006-01-02"), now.Weekday().String(),
		tomorrow.Format("2006-01-02"),
		nextMonday.Format("2006-01-02"),
		sessionContext,
	)
}

// daysUntilNextMonday is always in [1,7]: on a Monday, "next Monday" means
// a week out.
func daysUntilNextMonday(now time.Time) int {
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return days
}

// sessionContext renders the condensed history plus routing state into the
// compact context block the classifier sees. It never includes tool traffic.
func sessionContext(sess *domain.Session) string {
	if sess == nil {
		return ""
	}

	var b strings.Builder

	if sess.ActiveDomain.Valid() {
		fmt.Fprintf(&b, "Active domain: %s\n", sess.ActiveDomain)
	}
	if !sess.CollectedData.Empty() {
		fmt.Fprintf(&b, "Collected so far: %s\n", sess.CollectedData.Summary())
	}
	if sess.BookingID != "" {
		fmt.Fprintf(&b, "Existing booking: %s\n", sess.BookingID)
	}

	for _, turn := range sess.CondensedHistory {
		speaker := "Patient"
		if turn.Role == domain.RoleAssistant {
			speaker = "Receptionist"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, turn.Text)
	}

	return strings.TrimRight(b.String(), "\n")
}
