package model

type MailJobKind string

const (
	MailJobRecovery MailJobKind = "recovery"
	MailJobWelcome  MailJobKind = "welcome"
)

// MailJob is the payload pushed onto the mail queue and consumed by the
// mail worker. Token is only set for recovery jobs.
type MailJob struct {
	ID    string      `json:"id"`
	Kind  MailJobKind `json:"kind"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Token string      `json:"token,omitempty"`
}
