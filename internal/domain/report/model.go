package report

import "time"

// Sender identifies which party authored a conversation message.
type Sender string

const (
	SenderReporter       Sender = "REPORTER"
	SenderComplianceTeam Sender = "COMPLIANCE_TEAM"
)

// IsValid reports whether the sender is one of the two known parties.
func (s Sender) IsValid() bool {
	return s == SenderReporter || s == SenderComplianceTeam
}

// Report is one whistleblower submission, the root aggregate of a
// conversation thread. ReportID is the public reference used everywhere;
// SecretKey is the reporter's only credential. Both are immutable after
// creation.
type Report struct {
	ReportID    string     `json:"reportId"`
	SecretKey   string     `json:"secretKey,omitempty"`
	TenantID    string     `json:"tenantId"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Attachments []string   `json:"attachments"`
	Status      Status     `json:"status"`
	Read        bool       `json:"readOrUnread"`
	CreatedAt   time.Time  `json:"createdAt"`
	ReceivedAt  *time.Time `json:"receivedAt,omitempty"`
	DeadlineAt  time.Time  `json:"deadlineAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ConversationMessage is one append-only follow-up on a report. Ordering is
// defined by CreatedAt ascending; a message is never mutated once written.
type ConversationMessage struct {
	ReportID    string    `json:"reportId"`
	Sender      Sender    `json:"sender"`
	Message     string    `json:"message"`
	Attachments []string  `json:"attachments"`
	Read        bool      `json:"readOrUnread"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Conversation bundles a report with its ordered message history.
type Conversation struct {
	Report   *Report               `json:"report"`
	Messages []ConversationMessage `json:"messages"`
}
