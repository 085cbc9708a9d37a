package domain

// Domain is one of a closed set of conversational purposes. The domain gates
// which capability set a generation call may use.
type Domain string

const (
	DomainScheduling Domain = "scheduling"
	DomainFAQ        Domain = "faq"
	DomainCrisis     Domain = "crisis"
	DomainHandoff    Domain = "handoff"
	DomainGreeting   Domain = "greeting"
	DomainGoodbye    Domain = "goodbye"
	DomainOutOfScope Domain = "out_of_scope"

	// DomainUnknown is an internal signal: classification stayed under the
	// confidence threshold after the fallback-model retry. The dispatcher
	// falls back to the conversation handler and does not record a domain
	// switch. Never stored as a session's active domain.
	DomainUnknown Domain = "unknown"
)

// Valid reports whether d is a member of the closed classification set.
// DomainUnknown is a routing signal, not a classification result.
func (d Domain) Valid() bool {
	switch d {
	case DomainScheduling, DomainFAQ, DomainCrisis, DomainHandoff,
		DomainGreeting, DomainGoodbye, DomainOutOfScope:
		return true
	default:
		return false
	}
}

// Generative reports whether handling this domain involves a generation call.
// Crisis is the one deterministic domain.
func (d Domain) Generative() bool {
	return d != DomainCrisis
}

// SubIntent is a domain-scoped refinement of the classified domain.
type SubIntent string

const (
	SubIntentBook         SubIntent = "book"
	SubIntentCancel       SubIntent = "cancel"
	SubIntentReschedule   SubIntent = "reschedule"
	SubIntentCheck        SubIntent = "check"
	SubIntentProvideInfo  SubIntent = "provide_info"
	SubIntentConfirmYes   SubIntent = "confirm_yes"
	SubIntentConfirmNo    SubIntent = "confirm_no"
	SubIntentCorrection   SubIntent = "correction"
	SubIntentSelectOption SubIntent = "select_option"
	SubIntentQuestion     SubIntent = "question"
)

// Valid reports whether s is a member of the closed sub-intent set.
func (s SubIntent) Valid() bool {
	switch s {
	case SubIntentBook, SubIntentCancel, SubIntentReschedule, SubIntentCheck,
		SubIntentProvideInfo, SubIntentConfirmYes, SubIntentConfirmNo,
		SubIntentCorrection, SubIntentSelectOption, SubIntentQuestion:
		return true
	default:
		return false
	}
}

// InDomain reports whether s is meaningful for domain d. Scheduling carries
// the full booking-flow set; every other domain only refines to "question".
func (s SubIntent) InDomain(d Domain) bool {
	if !s.Valid() {
		return false
	}
	if d == DomainScheduling {
		return true
	}
	return s == SubIntentQuestion
}

// Urgency is the router's estimate of message urgency. Informational only:
// it never gates routing or dispatch.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

// RouteDecision is the result of one router classification call. Ephemeral:
// nothing outlives the turn except the entities, which are merged into the
// session's collected data.
type RouteDecision struct {
	Domain     Domain
	SubIntent  SubIntent
	Confidence float64
	Entities   EntitySet
	Urgency    Urgency
}
