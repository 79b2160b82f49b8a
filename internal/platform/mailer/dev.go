package mailer

import (
	"github.com/nextgen/nextgen-api/pkg/logger"
)

// DevMailer logs outbound mail instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) ([]string, error) {
	logger.Info("[DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return []string{toEmail}, nil
}

func (d *DevMailer) SendVerificationCode(toEmail, toName, code string) ([]string, error) {
	logger.Info("[DEV MAIL] Verification Code",
		"to", toEmail,
		"name", toName,
		"code", code,
	)
	return []string{toEmail}, nil
}
