package mailer

// Service is the outbound email transport. Send returns the recipient
// addresses the transport accepted; callers must check that the target
// address is in the list before treating the message as delivered.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (accepted []string, err error)
	SendVerificationCode(toEmail, toName, code string) (accepted []string, err error)
}
