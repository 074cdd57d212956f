package httpServices

import (
	"fmt"
	"net/smtp"
	"os"
)

// MailClient sends transactional mail over SMTP. Credentials come from the
// environment; a missing host is surfaced on send, not at construction.
type MailClient struct {
	host     string
	port     string
	from     string
	password string
}

func NewMailClient() *MailClient {
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &MailClient{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		from:     os.Getenv("SMTP_FROM"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (c *MailClient) send(to, subject, body string) error {
	if c.host == "" {
		return fmt.Errorf("SMTP_HOST is not configured")
	}

	msg := []byte("From: " + c.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", c.from, c.password, c.host)
	return smtp.SendMail(c.host+":"+c.port, auth, c.from, []string{to}, msg)
}

// SendOTP delivers a verification code. The subject and body depend on the
// flow the code gates.
func (c *MailClient) SendOTP(to string, purpose string, code string) error {
	var subject, body string
	switch purpose {
	case "password_reset":
		subject = "Your Password Reset OTP"
		body = fmt.Sprintf("Your password reset code is: %s\n\nThis code expires in 1 minute.", code)
	case "email_change":
		subject = "Verify Your New Email Address"
		body = fmt.Sprintf("Your email change verification code is: %s\n\nThis code expires in 5 minutes.", code)
	default:
		subject = "Your Account Verification OTP"
		body = fmt.Sprintf("Your account verification code is: %s\n\nThis code expires in 2 minutes.", code)
	}
	return c.send(to, subject, body)
}

// SendEmailChangeNotice informs the previous address that the account email
// was changed.
func (c *MailClient) SendEmailChangeNotice(oldEmail, newEmail string) error {
	body := fmt.Sprintf("The email address on your account was changed to %s.\n\nIf you did not request this change, please contact support immediately.", newEmail)
	return c.send(oldEmail, "Your Email Address Has Been Changed", body)
}
