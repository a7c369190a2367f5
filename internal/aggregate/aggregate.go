// Package aggregate flattens clinic preference submissions into one row per
// selected slot and tallies swimmers by level.
package aggregate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

type Swimmer struct {
	SwimmerName string       `json:"swimmerName"`
	ParentEmail string       `json:"parentEmail"`
	ParentPhone string       `json:"parentPhone"`
	Level       domain.Level `json:"level"`
}

type Row struct {
	Location string    `json:"location"`
	Label    string    `json:"label"`
	DateKey  string    `json:"dateKey"`
	Swimmers []Swimmer `json:"swimmers"`
}

type Result struct {
	Rows               []Row                `json:"rows"`
	ByLevel            map[domain.Level]int `json:"byLevel"`
	UniqueSwimmerCount int                  `json:"uniqueSwimmerCount"`
}

// Aggregate groups the submissions of one season. Submissions are visited in
// submission order so the earliest entry of a duplicated swimmer is the one
// kept in a row. The input slice is not modified.
func Aggregate(submissions []*domain.Submission) *Result {
	ordered := make([]*domain.Submission, len(submissions))
	copy(ordered, submissions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	res := &Result{
		Rows:    make([]Row, 0),
		ByLevel: make(map[domain.Level]int),
	}

	rows := make(map[domain.SlotKey]*Row)
	seenInRow := make(map[domain.SlotKey]map[domain.SwimmerKey]bool)
	swimmers := make(map[domain.SwimmerKey]bool)

	for _, s := range ordered {
		res.ByLevel[tallyLevel(s.Level)]++

		key := s.Key()
		swimmers[key] = true

		for _, slot := range s.Slots() {
			row, exists := rows[slot]
			if !exists {
				row = &Row{
					Location: slot.Location,
					Label:    slot.Label,
					DateKey:  DateKey(slot.Label),
					Swimmers: make([]Swimmer, 0),
				}
				rows[slot] = row
				seenInRow[slot] = make(map[domain.SwimmerKey]bool)
			}

			if seenInRow[slot][key] {
				continue
			}
			seenInRow[slot][key] = true

			row.Swimmers = append(row.Swimmers, Swimmer{
				SwimmerName: s.SwimmerName,
				ParentEmail: s.ParentEmail,
				ParentPhone: s.ParentPhone,
				Level:       s.Level,
			})
		}
	}

	keys := make([]domain.SlotKey, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, k := range keys {
		res.Rows = append(res.Rows, *rows[k])
	}
	res.UniqueSwimmerCount = len(swimmers)

	return res
}

// FilterActivity keeps the submissions that belong to the activity. An
// activityID of 0 keeps everything.
func FilterActivity(submissions []*domain.Submission, activityID int64) []*domain.Submission {
	if activityID == 0 {
		return submissions
	}
	filtered := make([]*domain.Submission, 0, len(submissions))
	for _, s := range submissions {
		if s.InActivity(activityID) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func tallyLevel(level domain.Level) domain.Level {
	trimmed := strings.TrimSpace(string(level))
	if trimmed == "" {
		return domain.LevelUnspecified
	}
	return domain.Level(trimmed)
}

var dateTokenRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})\b`)

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// DateKey extracts the month/day token of a slot label as "MM-DD", e.g.
// "Sat Jun 14 9AM" -> "06-14". Labels without a date yield "".
func DateKey(label string) string {
	m := dateTokenRe.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%02d-%02d", months[strings.ToLower(m[1])], day)
}
