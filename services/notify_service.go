package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"feedbackhub/config"
	"feedbackhub/models"
)

// Mailer sends one plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

// Notifier emails a summary of each stored submission. It is best-effort:
// every failure is logged and swallowed, never surfaced to the pipeline.
type Notifier struct {
	mailer    Mailer
	recipient string
	subject   string
}

// NewNotifier builds a notifier around a mailer and a fixed recipient.
func NewNotifier(mailer Mailer, recipient, subject string) *Notifier {
	return &Notifier{mailer: mailer, recipient: recipient, subject: subject}
}

// Notify composes and sends the summary email for one stored submission.
func (n *Notifier) Notify(sub *models.Submission, rowNumber int64, receivedAt time.Time) {
	body := ComposeNotification(sub, rowNumber, receivedAt)
	if err := n.mailer.Send(n.recipient, n.subject, body); err != nil {
		log.Printf("Failed to send notification email: %v", err)
		return
	}
	log.Printf("Notification email sent to %s", n.recipient)
}

// ComposeNotification renders the plain-text summary body.
func ComposeNotification(sub *models.Submission, rowNumber int64, receivedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("New feedback submission received!\n\n")
	sb.WriteString("Submission Details:\n")
	sb.WriteString(fmt.Sprintf("- Timestamp: %s\n", receivedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("- Row Number in Sheet: %d\n", rowNumber))

	if avg, ok := AverageRating(sub.Ratings); ok {
		sb.WriteString(fmt.Sprintf("- Average Rating: %s/5\n", avg))
	} else {
		sb.WriteString("- Average Rating: N/A\n")
	}

	sb.WriteString("\nCommittee Ratings:\n")
	for _, committee := range models.Committees {
		raw, present := sub.Ratings[committee]
		if !present {
			continue
		}
		sb.WriteString(fmt.Sprintf("  • %s: %d/5\n", committee, CoerceRating(raw)))
	}

	sb.WriteString("\nTestimony/Suggestions:\n")
	if sub.Testimony != "" {
		sb.WriteString(sub.Testimony + "\n")
	} else {
		sb.WriteString("No testimony provided.\n")
	}

	sb.WriteString("\nView the complete response in the spreadsheet.\n")
	return sb.String()
}

// AverageRating computes the mean of the ratings present in the submission,
// rounded to two decimals. The second return is false for an empty mapping.
func AverageRating(ratings map[string]interface{}) (string, bool) {
	if len(ratings) == 0 {
		return "", false
	}
	sum := 0
	for _, raw := range ratings {
		sum += CoerceRating(raw)
	}
	avg := float64(sum) / float64(len(ratings))
	return fmt.Sprintf("%.2f", avg), true
}

// SMTPMailer sends mail through an SMTP server using plain auth.
type SMTPMailer struct {
	cfg *config.Config
}

// NewSMTPMailer builds a mailer from the SMTP block of the config.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one plain-text message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.cfg.SMTP.Username, m.cfg.SMTP.Password, m.cfg.SMTP.Host)
	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
			"\r\n"+
			"%s\r\n",
		to, m.cfg.SMTP.SenderName, m.cfg.SMTP.SenderEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTP.Host, m.cfg.SMTP.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.SMTP.SenderEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send notification email: %v", err)
	}
	return nil
}
