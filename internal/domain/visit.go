package domain

import "time"

// Block IDs of the registration modal. They key both submitted values and
// inline validation errors.
const (
	FieldGuestName  = "guest_name"
	FieldGuestEmail = "guest_email"
	FieldDate       = "date"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
	FieldReason     = "reason"
)

// ModalCallbackID identifies the visitor registration modal in Slack
// view_submission payloads.
const ModalCallbackID = "visitor_form"

// VisitRequest carries one submitted registration. It lives for a single
// submission and is discarded once orchestration completes.
type VisitRequest struct {
	GuestName  string
	GuestEmail string // optional, empty when not provided
	VisitDate  string // YYYY-MM-DD, from the date picker
	StartText  string // raw free-text time entry
	EndText    string
	Reason     string
	// Slack user ID of the submitting host.
	RequestingUserID string

	// Derived by the time parser during orchestration, anchored to
	// VisitDate in the office zone.
	StartsAt time.Time
	EndsAt   time.Time
}

// HostProfile is the resolved identity of the host, looked up from the
// Slack directory. Never persisted.
type HostProfile struct {
	Email     string // empty when the directory has no email for the user
	FirstName string // "Unknown" when no name can be derived
}

// ValidationResult maps a field ID to a human-readable error. An empty map
// means the submission is acceptable.
type ValidationResult map[string]string

// OK reports whether the submission passed validation.
func (v ValidationResult) OK() bool { return len(v) == 0 }
