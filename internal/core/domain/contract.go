package domain

import "strings"

// SuccessInfo is what a signer sees after completing a document.
type SuccessInfo struct {
	SenderName       string     `json:"senderName"`
	SignerType       SignerType `json:"signerType"`
	OrganizationName string     `json:"organizationName"`
}

// Headline is the title of the agreement success page.
func (i SuccessInfo) Headline() string {
	switch {
	case i.SignerType == "":
		return "You have completed the document."
	case i.SignerType == SignerTypeSigner:
		return "You have successfully signed and sent the document."
	default:
		return "You have successfully approved the document."
	}
}

// SenderLine tells the signer who will be notified.
func (i SuccessInfo) SenderLine() string {
	parts := []string{"Sender"}
	if i.SenderName != "" {
		parts = append(parts, i.SenderName)
	}
	if i.OrganizationName != "" {
		parts = append(parts, i.OrganizationName)
	}
	doc := "signed"
	if i.SignerType == SignerTypeApprover {
		doc = "approved"
	}
	return strings.Join(parts, ", ") + " will be notified and will receive the " + doc + " document"
}

// CopyType discriminates the answer to a final-copy request.
type CopyType string

const (
	CopyMany      CopyType = "many"
	CopyAgreement CopyType = "agreement"
	CopyEmail     CopyType = "email"
	CopyError     CopyType = "error"
	CopySent      CopyType = "sent"
	CopyRequest   CopyType = "request"
)

const (
	copyReceivedMessage = "Your request has been received. You will be notified when the document is ready."
	copyFailedMessage   = "Looks like something went wrong. We cannot get the final copy of the document at the moment. Please contact the sender."
	copySentMessage     = "The final document has been emailed to you. Please check your inbox."
	copyPendingMessage  = "The document is not ready yet. We will email you the final copy of the document once it is ready."
)

// Known reports whether t is one of the documented discriminators.
func (t CopyType) Known() bool {
	switch t {
	case CopyMany, CopyAgreement, CopyEmail, CopyError, CopySent, CopyRequest:
		return true
	}
	return false
}

// CopyResult is the outcome of a final-copy request.
type CopyResult struct {
	Type   CopyType
	Failed bool
}

// Message maps the result to its sentence. Unknown types read as received on
// success and as failure otherwise.
func (r CopyResult) Message() string {
	switch r.Type {
	case CopyMany:
		return copyReceivedMessage
	case CopyAgreement, CopyEmail, CopyError:
		return copyFailedMessage
	case CopySent:
		return copySentMessage
	case CopyRequest:
		return copyPendingMessage
	}
	if r.Failed {
		return copyFailedMessage
	}
	return copyReceivedMessage
}
