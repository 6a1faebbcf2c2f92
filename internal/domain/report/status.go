package report

import (
	"fmt"
	"strings"
)

// Status represents the lifecycle status of a whistleblower report.
type Status string

const (
	// StatusNew indicates the report was submitted and nobody has looked at it.
	StatusNew Status = "NEW"
	// StatusReceived indicates compliance staff opened the report at least once.
	StatusReceived Status = "RECEIVED"
	// StatusInProgress indicates compliance staff replied on the conversation.
	StatusInProgress Status = "IN_PROGRESS"

	// Terminal states (no implicit transitions out)
	StatusClosed   Status = "CLOSED"
	StatusCanceled Status = "CANCELED"
)

// allStatuses is the closed set used for manual override parsing.
var allStatuses = []Status{StatusNew, StatusReceived, StatusInProgress, StatusClosed, StatusCanceled}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCanceled
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus matches a status name case-insensitively. Staff overrides come
// in through the API as free-form strings.
func ParseStatus(name string) (Status, error) {
	for _, s := range allStatuses {
		if strings.EqualFold(string(s), name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status: %s", name)
}

// Trigger is a domain event that may advance a report's status. Transitions
// are side effects of ordinary reads and writes: the events that should drive
// them ("staff looked at it", "staff replied") are observed at those call
// sites, so every read/write path applies NextStatus rather than a dedicated
// transition endpoint.
type Trigger string

const (
	// TriggerStaffViewed fires on the first staff view of a conversation.
	TriggerStaffViewed Trigger = "staff_viewed"
	// TriggerComplianceReplied fires when the compliance team sends a message.
	TriggerComplianceReplied Trigger = "compliance_replied"
	// TriggerReporterReplied fires when the reporter sends a message.
	TriggerReporterReplied Trigger = "reporter_replied"
)

// NextStatus returns the status a report moves to when the given trigger
// fires. It returns the current status unchanged when the trigger has no
// effect. Manual staff overrides bypass this function entirely.
func NextStatus(current Status, trigger Trigger) Status {
	switch trigger {
	case TriggerStaffViewed:
		if current == StatusNew {
			return StatusReceived
		}
	case TriggerComplianceReplied:
		if !current.IsTerminal() {
			return StatusInProgress
		}
	case TriggerReporterReplied:
		// Reporter messages never change status.
	}
	return current
}
