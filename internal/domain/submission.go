package domain

import "time"

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelCompetitive  Level = "competitive"

	// LevelUnspecified is the tally bucket for submissions without a level.
	LevelUnspecified Level = "unspecified"
)

var KnownLevels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelCompetitive}

// Preference lists the slot labels a swimmer picked at one location, most
// wanted first.
type Preference struct {
	Location   string   `json:"location"`
	Selections []string `json:"selections"`
}

type Submission struct {
	ID          string       `json:"id"`
	Season      string       `json:"season"`
	ActivityID  int64        `json:"activityID,omitempty"`
	AccountID   *int64       `json:"accountID,omitempty"`
	SwimmerID   *string      `json:"swimmerID,omitempty"`
	SwimmerName string       `json:"swimmerName"`
	Level       Level        `json:"level"`
	ParentEmail string       `json:"parentEmail"`
	ParentPhone string       `json:"parentPhone"`
	Preferences []Preference `json:"preferences"`
	SubmittedAt time.Time    `json:"submittedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (s *Submission) Key() SwimmerKey {
	return NewSwimmerKey(s.Season, s.ParentEmail, s.SwimmerName)
}

// InActivity reports whether the submission belongs to the given activity.
// Season-wide submissions (ActivityID 0) belong to every activity of the season.
func (s *Submission) InActivity(activityID int64) bool {
	return activityID == 0 || s.ActivityID == 0 || s.ActivityID == activityID
}

// Slots returns the selected slots in preference order without repeats.
func (s *Submission) Slots() []SlotKey {
	seen := make(map[SlotKey]bool)
	slots := make([]SlotKey, 0)
	for _, pref := range s.Preferences {
		for _, label := range pref.Selections {
			key := SlotKey{Location: pref.Location, Label: label}
			if key.Location == "" || key.Label == "" || seen[key] {
				continue
			}
			seen[key] = true
			slots = append(slots, key)
		}
	}
	return slots
}
