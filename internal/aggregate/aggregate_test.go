package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

func submission(name, email string, level domain.Level, at int64, prefs ...domain.Preference) *domain.Submission {
	s := &domain.Submission{
		Season:      "summer-2025",
		SwimmerName: name,
		ParentEmail: email,
		ParentPhone: "555-0100",
		Level:       level,
		Preferences: prefs,
		SubmittedAt: time.UnixMilli(at),
	}
	s.ID = s.Key().SubmissionID()
	return s
}

func TestAggregateGroupsBySlotAndSortsRows(t *testing.T) {
	subs := []*domain.Submission{
		submission("Ava", "a@example.com", domain.LevelBeginner, 200,
			domain.Preference{Location: "PoolB", Selections: []string{"Jun 14 9AM"}},
			domain.Preference{Location: "PoolA", Selections: []string{"Mon 9AM", "Jun 02 10AM"}},
		),
		submission("Ben", "b@example.com", domain.LevelAdvanced, 100,
			domain.Preference{Location: "PoolA", Selections: []string{"Mon 9AM"}},
		),
	}

	res := Aggregate(subs)

	require.Len(t, res.Rows, 3)
	assert.Equal(t, "PoolA", res.Rows[0].Location)
	assert.Equal(t, "Jun 02 10AM", res.Rows[0].Label)
	assert.Equal(t, "06-02", res.Rows[0].DateKey)
	assert.Equal(t, "Mon 9AM", res.Rows[1].Label)
	assert.Equal(t, "", res.Rows[1].DateKey)
	assert.Equal(t, "PoolB", res.Rows[2].Location)

	// earliest submission first within a row
	require.Len(t, res.Rows[1].Swimmers, 2)
	assert.Equal(t, "Ben", res.Rows[1].Swimmers[0].SwimmerName)
	assert.Equal(t, "Ava", res.Rows[1].Swimmers[1].SwimmerName)

	assert.Equal(t, 1, res.ByLevel[domain.LevelBeginner])
	assert.Equal(t, 1, res.ByLevel[domain.LevelAdvanced])
	assert.Equal(t, 2, res.UniqueSwimmerCount)
}

func TestAggregateDeduplicatesSwimmerWithinRow(t *testing.T) {
	pref := domain.Preference{Location: "PoolA", Selections: []string{"Mon 9AM", "Mon 9AM"}}
	first := submission("Ava Lee", "Parent@Example.com", domain.LevelBeginner, 100, pref)
	resubmitted := submission("  ava lee ", "parent@example.com", domain.LevelBeginner, 300, pref)
	resubmitted.ID = "legacy-random-id"

	res := Aggregate([]*domain.Submission{resubmitted, first})

	require.Len(t, res.Rows, 1)
	require.Len(t, res.Rows[0].Swimmers, 1)
	assert.Equal(t, "Ava Lee", res.Rows[0].Swimmers[0].SwimmerName)
	assert.Equal(t, 1, res.UniqueSwimmerCount)
	// both submissions still count toward the level tally
	assert.Equal(t, 2, res.ByLevel[domain.LevelBeginner])
}

func TestAggregateEmptyPreferencesStillCountLevel(t *testing.T) {
	res := Aggregate([]*domain.Submission{
		submission("Cy", "c@example.com", "Shark (legacy)", 100),
		submission("Di", "d@example.com", "", 100),
	})

	assert.Empty(t, res.Rows)
	assert.Equal(t, 1, res.ByLevel["Shark (legacy)"])
	assert.Equal(t, 1, res.ByLevel[domain.LevelUnspecified])
	assert.Equal(t, 2, res.UniqueSwimmerCount)
}

func TestAggregateIsIdempotent(t *testing.T) {
	subs := []*domain.Submission{
		submission("Ava", "a@example.com", domain.LevelBeginner, 200,
			domain.Preference{Location: "PoolA", Selections: []string{"Mon 9AM", "Tue 9AM"}}),
		submission("Ben", "b@example.com", domain.LevelAdvanced, 100,
			domain.Preference{Location: "PoolA", Selections: []string{"Tue 9AM"}}),
	}

	assert.Equal(t, Aggregate(subs), Aggregate(subs))
	assert.Equal(t, "Ava", subs[0].SwimmerName, "input order must be left untouched")
}

func TestFilterActivity(t *testing.T) {
	a := submission("Ava", "a@example.com", domain.LevelBeginner, 1)
	a.ActivityID = 7
	b := submission("Ben", "b@example.com", domain.LevelBeginner, 2)
	b.ActivityID = 8
	c := submission("Cy", "c@example.com", domain.LevelBeginner, 3)

	assert.Equal(t, []*domain.Submission{a, c}, FilterActivity([]*domain.Submission{a, b, c}, 7))
	assert.Len(t, FilterActivity([]*domain.Submission{a, b, c}, 0), 3)
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Jun 14 9AM", "06-14"},
		{"Sat Aug 3 - 10:30", "08-03"},
		{"sept. 21 evening", "09-21"},
		{"Mon 9AM", ""},
		{"Dec 45", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, DateKey(tt.label))
		})
	}
}
