package services

import (
	"fmt"
	"log"

	"dofe-kas/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail to members.
type Mailer interface {
	SendPasswordReset(to, nama, resetLink string) error
}

// MailerService sends mail over SMTP. When SMTP is not configured (dev),
// the reset link is written to the server log instead of being mailed.
type MailerService struct {
	cfg config.MailConfig
}

// NewMailerService creates a new mailer service
func NewMailerService(cfg config.MailConfig) *MailerService {
	return &MailerService{cfg: cfg}
}

// SendPasswordReset mails a password reset link to a member's student address.
func (s *MailerService) SendPasswordReset(to, nama, resetLink string) error {
	if s.cfg.User == "" || s.cfg.Password == "" {
		log.Println("--- DEVELOPMENT MODE: Reset Link ---")
		log.Printf("To: %s", to)
		log.Printf("Link: %s", resetLink)
		log.Println("-----------------------------------")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("DofE System <%s>", s.cfg.User))
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset Request - DofE System")
	m.SetBody("text/html", resetMailBody(nama, resetLink))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reset mail to %s: %w", to, err)
	}

	log.Printf("✅ Password reset mail sent to %s", to)
	return nil
}

func resetMailBody(nama, resetLink string) string {
	return fmt.Sprintf(`
		<div style="font-family: sans-serif; padding: 20px; color: #333;">
			<h2>Password Reset Request</h2>
			<p>Hello %s,</p>
			<p>You requested a password reset for your DofE System account.</p>
			<p>Click the link below to reset your password. This link will expire in 30 minutes.</p>
			<div style="margin: 30px 0;">
				<a href="%s" style="background-color: #6366f1; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold;">Reset Password</a>
			</div>
			<p>If you did not request this, please ignore this email.</p>
		</div>`, nama, resetLink)
}
