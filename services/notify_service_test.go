package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"feedbackhub/models"
)

type recordingMailer struct {
	to, subject, body string
	sent              int
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	m.sent++
	return nil
}

type failingMailer struct{}

func (m *failingMailer) Send(to, subject, body string) error {
	return errors.New("smtp unreachable")
}

func TestAverageRating(t *testing.T) {
	avg, ok := AverageRating(map[string]interface{}{"medical": 5, "technical": 3})
	if !ok || avg != "4.00" {
		t.Errorf("Expected 4.00, got %q (ok=%v)", avg, ok)
	}

	if _, ok := AverageRating(map[string]interface{}{}); ok {
		t.Error("Expected no average for empty ratings")
	}

	avg, ok = AverageRating(map[string]interface{}{"medical": "abc", "food": 3})
	if !ok || avg != "1.50" {
		t.Errorf("Expected non-numeric values to count as zero, got %q", avg)
	}
}

func TestComposeNotification(t *testing.T) {
	receivedAt := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	sub := &models.Submission{
		Ratings:   map[string]interface{}{"medical": 5, "technical": 3},
		Testimony: "Great event",
	}

	body := ComposeNotification(sub, 2, receivedAt)

	for _, want := range []string{
		"- Timestamp: 2025-06-01 10:30:00",
		"- Row Number in Sheet: 2",
		"- Average Rating: 4.00/5",
		"• medical: 5/5",
		"• technical: 3/5",
		"Great event",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "program:") {
		t.Error("Body should only list committees present in the submission")
	}
}

func TestComposeNotificationDefaults(t *testing.T) {
	body := ComposeNotification(&models.Submission{Ratings: map[string]interface{}{}}, 3, time.Now())

	if !strings.Contains(body, "- Average Rating: N/A") {
		t.Errorf("Expected N/A average for empty ratings:\n%s", body)
	}
	if !strings.Contains(body, "No testimony provided.") {
		t.Errorf("Expected testimony placeholder:\n%s", body)
	}
}

func TestNotifySendsToConfiguredRecipient(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, "ops@example.com", "New Feedback")

	n.Notify(&models.Submission{Ratings: map[string]interface{}{"medical": 4}}, 2, time.Now())

	if mailer.sent != 1 {
		t.Fatalf("Expected one mail sent, got %d", mailer.sent)
	}
	if mailer.to != "ops@example.com" {
		t.Errorf("Expected recipient ops@example.com, got %s", mailer.to)
	}
	if mailer.subject != "New Feedback" {
		t.Errorf("Expected configured subject, got %s", mailer.subject)
	}
}

func TestNotifySwallowsMailerFailure(t *testing.T) {
	n := NewNotifier(&failingMailer{}, "ops@example.com", "New Feedback")

	// Must not panic or propagate anything
	n.Notify(&models.Submission{Ratings: map[string]interface{}{"medical": 4}}, 2, time.Now())
}
