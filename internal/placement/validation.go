package placement

import (
	"sort"
	"strings"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

// Validate checks a full lane/waitlist set before anything is written and
// returns a normalised copy: lanes ordered by number, capacities defaulted,
// waitlist renumbered densely from 0 in the order given.
func Validate(req *UpsertRequest, defaultCapacity int32) ([]domain.Lane, []domain.WaitlistEntry, error) {
	if req.ActivityID <= 0 {
		return nil, nil, domain.NewValidationError("activityID", "is required")
	}
	if strings.TrimSpace(req.Season) == "" {
		return nil, nil, domain.NewValidationError("season", "is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, nil, domain.NewValidationError("location", "is required")
	}
	if strings.TrimSpace(req.SlotLabel) == "" {
		return nil, nil, domain.NewValidationError("slotLabel", "is required")
	}
	if defaultCapacity <= 0 {
		defaultCapacity = domain.DefaultLaneCapacity
	}

	lanes := make([]domain.Lane, 0, len(req.Lanes))
	laneNumbers := make(map[int32]bool)
	assigned := make(map[string]int32) // submissionID -> lane number

	for i, lane := range req.Lanes {
		if lane.LaneNumber <= 0 {
			return nil, nil, domain.NewValidationError("lanes", "lane %d has a non-positive lane number %d", i+1, lane.LaneNumber)
		}
		if laneNumbers[lane.LaneNumber] {
			return nil, nil, domain.NewValidationError("lanes", "lane number %d is used more than once", lane.LaneNumber)
		}
		laneNumbers[lane.LaneNumber] = true

		capacity := lane.Capacity
		switch {
		case capacity < 0:
			return nil, nil, domain.NewValidationError("lanes", "lane %d has a negative capacity", lane.LaneNumber)
		case capacity == 0:
			capacity = defaultCapacity
		}

		if len(lane.Swimmers) > int(capacity) {
			return nil, nil, domain.NewValidationError("lanes", "lane %d holds %d swimmers but its capacity is %d", lane.LaneNumber, len(lane.Swimmers), capacity)
		}

		swimmers := make([]domain.LaneSwimmer, 0, len(lane.Swimmers))
		for _, s := range lane.Swimmers {
			if s.SubmissionID == "" {
				return nil, nil, domain.NewValidationError("lanes", "lane %d has a swimmer without a submission id", lane.LaneNumber)
			}
			if other, exists := assigned[s.SubmissionID]; exists {
				return nil, nil, domain.NewValidationError("lanes", "submission %s is assigned to lane %d and lane %d", s.SubmissionID, other, lane.LaneNumber)
			}
			assigned[s.SubmissionID] = lane.LaneNumber
			swimmers = append(swimmers, s)
		}

		lanes = append(lanes, domain.Lane{
			LaneNumber: lane.LaneNumber,
			Capacity:   capacity,
			Swimmers:   swimmers,
		})
	}

	sort.Slice(lanes, func(i, j int) bool {
		return lanes[i].LaneNumber < lanes[j].LaneNumber
	})

	waitlist := make([]domain.WaitlistEntry, len(req.Waitlist))
	copy(waitlist, req.Waitlist)
	sort.SliceStable(waitlist, func(i, j int) bool {
		return waitlist[i].WaitlistOrder < waitlist[j].WaitlistOrder
	})

	queued := make(map[string]bool)
	for i := range waitlist {
		id := waitlist[i].SubmissionID
		if id == "" {
			return nil, nil, domain.NewValidationError("waitlist", "entry %d has no submission id", i+1)
		}
		if queued[id] {
			return nil, nil, domain.NewValidationError("waitlist", "submission %s is queued more than once", id)
		}
		if lane, exists := assigned[id]; exists {
			return nil, nil, domain.NewValidationError("waitlist", "submission %s is both waitlisted and assigned to lane %d", id, lane)
		}
		queued[id] = true
		waitlist[i].WaitlistOrder = int32(i)
	}

	return lanes, waitlist, nil
}
