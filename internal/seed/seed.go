// Package seed loads development and legacy data into the submissions table.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/utils"
)

const (
	columnSwimmer     = "swimmer"
	columnLevel       = "level"
	columnEmail       = "email"
	columnPhone       = "phone"
	columnSubmittedAt = "submitted_at"
)

var infoColumns = []string{columnSwimmer, columnLevel, columnEmail, columnPhone, columnSubmittedAt}

// layouts seen in exported form responses
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02",
}

type SubmissionWriter interface {
	UpsertSubmissions(ctx context.Context, submissions []*domain.Submission) error
}

// Invalidator drops cached views derived from a season's submissions.
type Invalidator interface {
	Invalidate(ctx context.Context, season string) error
}

type invalidatingWriter struct {
	SubmissionWriter
	inv Invalidator
}

// WithInvalidation wraps w so that every successful write also invalidates
// the seasons it touched. Invalidation failures are logged.
func WithInvalidation(w SubmissionWriter, inv Invalidator) SubmissionWriter {
	return &invalidatingWriter{SubmissionWriter: w, inv: inv}
}

func (w *invalidatingWriter) UpsertSubmissions(ctx context.Context, submissions []*domain.Submission) error {
	if err := w.SubmissionWriter.UpsertSubmissions(ctx, submissions); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, s := range submissions {
		if seen[s.Season] {
			continue
		}
		seen[s.Season] = true
		if err := w.inv.Invalidate(ctx, s.Season); err != nil {
			slog.Warn("failed to invalidate aggregate cache", "season", s.Season, "error", err)
		}
	}
	return nil
}

func parseSubmittedAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", raw)
}

func splitLabels(cell string) []string {
	labels := make([]string, 0)
	for _, label := range strings.Split(cell, ";") {
		label = strings.TrimSpace(label)
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// ParseSubmissionsCSV reads a legacy preference sheet. Known info columns are
// matched case-insensitively; every other column is a location whose cell
// holds ";"-separated slot labels. Rows for the same swimmer collapse into
// one submission that keeps the earliest submission time and the latest
// answers. Any malformed row fails the whole sheet.
func ParseSubmissionsCSV(r io.Reader, season string) ([]*domain.Submission, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		return nil, domain.NewValidationError("season", "is required")
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError("header", "file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	info := make(map[string]int)
	locations := make(map[int]string)
	for i, header := range headers {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
		known := false
		for _, col := range infoColumns {
			if name == col {
				info[col] = i
				known = true
				break
			}
		}
		if !known && name != "" {
			locations[i] = strings.TrimSpace(header)
		}
	}
	for _, required := range []string{columnSwimmer, columnEmail} {
		if _, ok := info[required]; !ok {
			return nil, domain.NewValidationError("header", "missing %s column", required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := info[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	order := make([]domain.SwimmerKey, 0)
	byKey := make(map[domain.SwimmerKey]*domain.Submission)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s := &domain.Submission{
			Season:      season,
			SwimmerName: cell(row, columnSwimmer),
			Level:       domain.Level(strings.ToLower(cell(row, columnLevel))),
			ParentEmail: strings.ToLower(cell(row, columnEmail)),
			ParentPhone: cell(row, columnPhone),
			Preferences: make([]domain.Preference, 0),
		}

		if s.SwimmerName == "" && s.ParentEmail == "" {
			continue // blank line in the sheet
		}
		if s.SwimmerName == "" {
			return nil, domain.NewValidationError("swimmer", "line %d: is empty", line)
		}
		if _, err := mail.ParseAddress(s.ParentEmail); err != nil {
			return nil, domain.NewValidationError("email", "line %d: %q is not an e-mail address", line, s.ParentEmail)
		}
		if s.SubmittedAt, err = parseSubmittedAt(cell(row, columnSubmittedAt)); err != nil {
			return nil, domain.NewValidationError("submitted_at", "line %d: %v", line, err)
		}

		for i := range headers {
			location, ok := locations[i]
			if !ok || i >= len(row) {
				continue
			}
			if labels := splitLabels(row[i]); len(labels) > 0 {
				s.Preferences = append(s.Preferences, domain.Preference{Location: location, Selections: labels})
			}
		}

		key := s.Key()
		s.ID = key.SubmissionID()

		if prev, ok := byKey[key]; ok {
			if !prev.SubmittedAt.IsZero() && (s.SubmittedAt.IsZero() || prev.SubmittedAt.Before(s.SubmittedAt)) {
				s.SubmittedAt = prev.SubmittedAt
			}
		} else {
			order = append(order, key)
		}
		byKey[key] = s
	}

	submissions := make([]*domain.Submission, 0, len(order))
	for _, key := range order {
		submissions = append(submissions, byKey[key])
	}
	return submissions, nil
}

// Import parses the sheet and stores it for the activity in one transaction.
func Import(ctx context.Context, w SubmissionWriter, r io.Reader, season string, activityID int64) (int, error) {
	submissions, err := ParseSubmissionsCSV(r, season)
	if err != nil {
		return 0, err
	}

	for _, s := range submissions {
		s.ActivityID = activityID
	}

	if err := w.UpsertSubmissions(ctx, submissions); err != nil {
		return 0, err
	}

	slog.Info("imported submissions", "season", season, "activityID", activityID, "count", len(submissions))
	return len(submissions), nil
}

// Random stores n generated submissions for the activity.
func Random(ctx context.Context, w SubmissionWriter, activity *domain.Activity, n int, emailDomainName string) (int, error) {
	if n <= 0 {
		return 0, domain.NewValidationError("n", "must be positive")
	}

	byID := make(map[string]*domain.Submission, n)
	submissions := make([]*domain.Submission, 0, n)
	for i := 0; i < n; i++ {
		s := utils.GenerateRandomSubmission(activity, emailDomainName)
		// a generated name can repeat under the same parent
		if _, ok := byID[s.ID]; ok {
			continue
		}
		byID[s.ID] = s
		submissions = append(submissions, s)
	}

	if err := w.UpsertSubmissions(ctx, submissions); err != nil {
		return 0, err
	}

	slog.Info("generated submissions", "season", activity.Season, "activityID", activity.ID, "count", len(submissions))
	return len(submissions), nil
}
