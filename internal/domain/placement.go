package domain

import "time"

const DefaultLaneCapacity = 3

type LaneSwimmer struct {
	SubmissionID string `json:"submissionID"`
	SwimmerName  string `json:"swimmerName,omitempty"`
	Level        Level  `json:"level,omitempty"`
}

type Lane struct {
	LaneNumber int32         `json:"laneNumber"`
	Capacity   int32         `json:"capacity"`
	Swimmers   []LaneSwimmer `json:"swimmers"`
}

type WaitlistEntry struct {
	SubmissionID  string `json:"submissionID"`
	SwimmerName   string `json:"swimmerName,omitempty"`
	WaitlistOrder int32  `json:"waitlistOrder"`
}

type Placement struct {
	ID         int64           `json:"id"`
	ActivityID int64           `json:"activityID"`
	Season     string          `json:"season"`
	Location   string          `json:"location"`
	SlotLabel  string          `json:"slotLabel"`
	Lanes      []Lane          `json:"lanes"`
	Waitlist   []WaitlistEntry `json:"waitlist"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Version    int32           `json:"version"`
}

func (p *Placement) Key() PlacementKey {
	return PlacementKey{
		ActivityID: p.ActivityID,
		Season:     p.Season,
		Location:   p.Location,
		SlotLabel:  p.SlotLabel,
	}
}

func (p *Placement) TotalCapacity() int {
	total := 0
	for _, lane := range p.Lanes {
		total += int(lane.Capacity)
	}
	return total
}

func (p *Placement) UsedCapacity() int {
	used := 0
	for _, lane := range p.Lanes {
		used += len(lane.Swimmers)
	}
	return used
}

// LaneOf returns the lane number holding the submission, or 0.
func (p *Placement) LaneOf(submissionID string) int32 {
	for _, lane := range p.Lanes {
		for _, s := range lane.Swimmers {
			if s.SubmissionID == submissionID {
				return lane.LaneNumber
			}
		}
	}
	return 0
}

func (p *Placement) IsWaitlisted(submissionID string) bool {
	for _, entry := range p.Waitlist {
		if entry.SubmissionID == submissionID {
			return true
		}
	}
	return false
}
