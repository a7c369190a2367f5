package domain

import (
	"strings"

	"github.com/google/uuid"
)

// submissionNamespace seeds the UUIDv5 ids derived from a SwimmerKey.
var submissionNamespace = uuid.MustParse("6f1c2a4e-8d1b-4b7e-9a51-3c0f0e9b6d27")

// SwimmerKey identifies one swimmer within a season. Components are normalised
// so that casing and surrounding whitespace never split one swimmer in two.
type SwimmerKey struct {
	Season      string
	ParentEmail string
	SwimmerName string
}

func NewSwimmerKey(season, parentEmail, swimmerName string) SwimmerKey {
	return SwimmerKey{
		Season:      normalizeKeyPart(season),
		ParentEmail: normalizeKeyPart(parentEmail),
		SwimmerName: normalizeKeyPart(swimmerName),
	}
}

// SubmissionID returns the deterministic id under which the swimmer's
// submission is stored, so resubmitting edits instead of duplicating.
func (k SwimmerKey) SubmissionID() string {
	name := k.Season + "\x00" + k.ParentEmail + "\x00" + k.SwimmerName
	return uuid.NewSHA1(submissionNamespace, []byte(name)).String()
}

type SlotKey struct {
	Location string
	Label    string
}

func (k SlotKey) Less(o SlotKey) bool {
	if k.Location != o.Location {
		return k.Location < o.Location
	}
	return k.Label < o.Label
}

type PlacementKey struct {
	ActivityID int64
	Season     string
	Location   string
	SlotLabel  string
}

func (k PlacementKey) Slot() SlotKey {
	return SlotKey{Location: k.Location, Label: k.SlotLabel}
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
