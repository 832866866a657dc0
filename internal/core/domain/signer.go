package domain

import "time"

// SignerType is the role a party plays in a contract.
type SignerType string

const (
	SignerTypeSigner   SignerType = "signer"
	SignerTypeApprover SignerType = "approver"
	SignerTypeViewer   SignerType = "viewer"
)

// SignerStatus is the delivery state of a signer's invitation.
type SignerStatus string

const (
	SignerSent      SignerStatus = "sent"
	SignerCompleted SignerStatus = "completed"
	SignerError     SignerStatus = "error"
)

// NoReminderUnit marks a signer without reminder cadence.
const NoReminderUnit = "0"

// Signer is one party attached to a contract.
type Signer struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Type      SignerType   `json:"type"`
	Status    SignerStatus `json:"status"`
	Declined  bool         `json:"declined"`
	Approved  bool         `json:"approved"`
	LastSeen  *time.Time   `json:"last_seen"`
	Every     int          `json:"every"`
	EveryUnit string       `json:"every_unit"`
	Color     Color        `json:"color"`
}

// HasReminder reports whether a reminder cadence is configured.
func (s Signer) HasReminder() bool {
	return s.EveryUnit != NoReminderUnit && s.EveryUnit != ""
}

// Failed reports whether the document could not be delivered to the signer.
func (s Signer) Failed() bool {
	return s.Status == SignerError
}

// SignerProgress is the server-computed completion count for a signer.
type SignerProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Done reports whether every field has been completed.
func (p SignerProgress) Done() bool {
	return p.Total == p.Completed
}

// Percent is the progress bar value. An empty set counts as complete.
func (p SignerProgress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Completed) * 100 / float64(p.Total)
}

// SignerEntry pairs a signer with its progress, when the API reported one.
type SignerEntry struct {
	Signer   Signer          `json:"signer"`
	Progress *SignerProgress `json:"progress"`
}

// ContractProgress is the payload behind the signer progress page.
type ContractProgress struct {
	ContractID int64         `json:"contract_id"`
	Title      string        `json:"title"`
	Signers    []SignerEntry `json:"signers"`
}

// SignerStatusLabel derives the status line of the expanded card. Rules apply
// in order: delivery error, viewer, approver, signer.
func SignerStatusLabel(status SignerStatus, progressDone bool, typ SignerType) string {
	if status == SignerError {
		return "Error Sending"
	}
	switch typ {
	case SignerTypeViewer:
		if status == SignerCompleted {
			return "Viewed"
		}
		return "Not Viewed"
	case SignerTypeApprover:
		if status == SignerCompleted {
			return "Approved"
		}
		return "In progress"
	}
	switch {
	case status == SignerCompleted:
		return "Completed"
	case status == SignerSent && progressDone:
		return "Not submitted"
	case status == SignerSent:
		return "In Progress"
	default:
		return "Not Sent"
	}
}

// BadgeIcon is the glyph shown in the corner of a signer card.
type BadgeIcon string

const (
	IconNone     BadgeIcon = ""
	IconError    BadgeIcon = "error"
	IconViewed   BadgeIcon = "viewed"
	IconDeclined BadgeIcon = "declined"
	IconApproved BadgeIcon = "approved"
	IconSigned   BadgeIcon = "signed"
)

// Badge is the icon plus one-line status sentence of a signer card.
type Badge struct {
	Label string
	Icon  BadgeIcon
}

// SignerBadgeOf computes the badge. Precedence: error, viewed, declined,
// approved, signed; anything else yields an empty badge.
func SignerBadgeOf(s Signer) Badge {
	if s.Status == SignerError {
		return Badge{Label: "Document could not be sent", Icon: IconError}
	}
	if s.Type == SignerTypeViewer && s.LastSeen != nil {
		return Badge{Label: s.Name + " viewed the document", Icon: IconViewed}
	}
	if s.Declined {
		action := "sign"
		if s.Type == SignerTypeApprover {
			action = "approve"
		}
		return Badge{Label: s.Name + " declined to " + action + " the document", Icon: IconDeclined}
	}
	if s.Type == SignerTypeApprover && s.Approved {
		return Badge{Label: s.Name + " approved the document", Icon: IconApproved}
	}
	if s.Type == SignerTypeSigner && s.Status == SignerCompleted {
		return Badge{Label: s.Name + " signed the document", Icon: IconSigned}
	}
	return Badge{}
}
