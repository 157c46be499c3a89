package invoice

// Status represents the processing status of an invoice
type Status string

const (
	StatusPending          Status = "pending"
	StatusProcessed        Status = "processed"
	StatusVerified         Status = "verified"
	StatusSentToAccountant Status = "sent_to_accountant"
	StatusError            Status = "error"
)

// StatusTag is the styling hint attached to a status for display
type StatusTag string

const (
	TagWarning StatusTag = "warning"
	TagInfo    StatusTag = "info"
	TagSuccess StatusTag = "success"
	TagPrimary StatusTag = "primary"
	TagDanger  StatusTag = "danger"
)

type statusPresentation struct {
	label string
	tag   StatusTag
}

var presentations = map[Status]statusPresentation{
	StatusPending:          {label: "Pending", tag: TagWarning},
	StatusProcessed:        {label: "Processed", tag: TagInfo},
	StatusVerified:         {label: "Verified", tag: TagSuccess},
	StatusSentToAccountant: {label: "Sent to accountant", tag: TagPrimary},
	StatusError:            {label: "Error", tag: TagDanger},
}

// AllStatuses returns the five statuses in lifecycle order
func AllStatuses() []Status {
	return []Status{StatusPending, StatusProcessed, StatusVerified, StatusSentToAccountant, StatusError}
}

// ParseStatus converts a stored value into a Status. Matching is exact, so
// any other spelling or casing is treated as pending.
func ParseStatus(raw string) Status {
	s := Status(raw)
	if s.IsValid() {
		return s
	}
	return StatusPending
}

// IsValid checks if the status is one of the defined statuses
func (s Status) IsValid() bool {
	_, ok := presentations[s]
	return ok
}

// Label returns the display label for the status
func (s Status) Label() string {
	return presentations[ParseStatus(string(s))].label
}

// Tag returns the styling tag for the status
func (s Status) Tag() StatusTag {
	return presentations[ParseStatus(string(s))].tag
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a user-driven or pipeline transition is allowed.
// Error is reachable from every state.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusError {
		return true
	}
	switch s {
	case StatusPending, StatusError:
		return target == StatusProcessed
	case StatusProcessed:
		return target == StatusVerified
	case StatusVerified:
		return target == StatusSentToAccountant
	}
	return false
}

// Transition is a conditional status write. The stored status must be one of
// From, where pending also covers unrecognized stored values. An empty From
// writes unconditionally.
type Transition struct {
	From       []Status
	WithFields bool
}

// Allows reports whether the stored status satisfies the transition
func (t Transition) Allows(stored Status) bool {
	if len(t.From) == 0 {
		return true
	}
	effective := ParseStatus(string(stored))
	for _, s := range t.From {
		if s == effective {
			return true
		}
	}
	return false
}

// ProcessTransition stores extraction results. It also writes the field set.
func ProcessTransition() Transition {
	return Transition{From: []Status{StatusPending, StatusError}, WithFields: true}
}

// VerifyTransition moves a processed invoice to verified
func VerifyTransition() Transition {
	return Transition{From: []Status{StatusProcessed}}
}

// SendTransition moves a verified invoice to sent_to_accountant
func SendTransition() Transition {
	return Transition{From: []Status{StatusVerified}}
}

// FailTransition records an error from any status
func FailTransition() Transition {
	return Transition{}
}

// Action is an operation a user may trigger on an invoice
type Action string

const (
	ActionEdit             Action = "edit"
	ActionVerify           Action = "verify"
	ActionSendToAccountant Action = "send_to_accountant"
)
