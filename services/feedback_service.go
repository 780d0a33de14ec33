package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"feedbackhub/db"
	"feedbackhub/models"
)

// ErrInvalidSubmission marks a submission that arrived without a ratings payload.
var ErrInvalidSubmission = errors.New("no ratings data provided")

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// FeedbackService runs the intake pipeline: validate, format, append, notify.
type FeedbackService struct {
	store    db.Store
	notifier *Notifier
}

var feedbackService *FeedbackService

// InitFeedbackService wires the service against a store and a notifier.
// The notifier may be nil, in which case submissions are stored silently.
func InitFeedbackService(store db.Store, notifier *Notifier) {
	feedbackService = &FeedbackService{store: store, notifier: notifier}
}

// GetFeedbackService returns the singleton service
func GetFeedbackService() *FeedbackService {
	return feedbackService
}

// SubmitFeedback persists one submission and returns its row number. The
// notification is fired after the row is stored and never affects the result.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, sub *models.Submission) (int64, error) {
	if err := ValidateSubmission(sub); err != nil {
		return 0, err
	}

	receivedAt := time.Now()
	row := FormatRow(sub, receivedAt)

	rowNumber, err := s.store.Append(ctx, row)
	if err != nil {
		return 0, fmt.Errorf("failed to save feedback: %w", err)
	}

	if s.notifier != nil {
		go s.notifier.Notify(sub, rowNumber, receivedAt)
	}

	return rowNumber, nil
}

// Health reports whether the spreadsheet behind the store is reachable.
func (s *FeedbackService) Health(ctx context.Context) (*db.Status, error) {
	return s.store.Ping(ctx)
}

// ValidateSubmission rejects a submission whose ratings mapping is absent.
// Individual rating values are never range-checked.
func ValidateSubmission(sub *models.Submission) error {
	if sub == nil || sub.Ratings == nil {
		return ErrInvalidSubmission
	}
	return nil
}

// FormatRow turns a valid submission into the fixed 11-column row:
// timestamp, the nine committee ratings in order, then the testimony.
func FormatRow(sub *models.Submission, now time.Time) []interface{} {
	row := make([]interface{}, 0, len(models.Committees)+2)
	row = append(row, ResolveTimestamp(sub.Timestamp, now).Format("2006-01-02 15:04:05"))
	for _, committee := range models.Committees {
		row = append(row, CoerceRating(sub.Ratings[committee]))
	}
	row = append(row, sub.Testimony)
	return row
}

// ResolveTimestamp parses the caller-supplied timestamp, falling back to the
// receipt time when it is absent or unparsable.
func ResolveTimestamp(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return now
}

// CoerceRating turns a raw rating value into an integer, silently defaulting
// to 0 for missing or non-numeric values.
func CoerceRating(v interface{}) int {
	switch val := v.(type) {
	case nil:
		return 0
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
