package placement

import "github.com/bluewave-swim/backoffice/backend/internal/domain"

// Change is the before/after of one successful upsert.
type Change struct {
	Activity *domain.Activity
	Previous *domain.Placement // nil when the placement was created
	Current  *domain.Placement
}

type Assignment struct {
	SubmissionID  string
	LaneNumber    int32
	WaitlistOrder int32
}

// NewlyPlaced lists submissions that sit in a lane now but did not before.
// Moving between lanes of the same placement is not a new placement.
func (c *Change) NewlyPlaced() []Assignment {
	res := make([]Assignment, 0)
	for _, lane := range c.Current.Lanes {
		for _, s := range lane.Swimmers {
			if c.Previous != nil && c.Previous.LaneOf(s.SubmissionID) != 0 {
				continue
			}
			res = append(res, Assignment{SubmissionID: s.SubmissionID, LaneNumber: lane.LaneNumber})
		}
	}
	return res
}

// NewlyWaitlisted lists submissions added to the waitlist by this change.
func (c *Change) NewlyWaitlisted() []Assignment {
	res := make([]Assignment, 0)
	for _, entry := range c.Current.Waitlist {
		if c.Previous != nil && c.Previous.IsWaitlisted(entry.SubmissionID) {
			continue
		}
		res = append(res, Assignment{SubmissionID: entry.SubmissionID, WaitlistOrder: entry.WaitlistOrder})
	}
	return res
}
