// Package recommend ranks clinic slots for every submission of a season.
// It only reads; applying a recommendation is a separate placement write.
package recommend

import (
	"fmt"
	"sort"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

type Engine struct {
	parameters *Parameters
	activity   *domain.Activity
	slots      map[domain.SlotKey]*domain.Placement
}

// New indexes the placements of one activity by slot. Placements of other
// activities or seasons are ignored.
func New(parameters *Parameters, activity *domain.Activity, placements []*domain.Placement) *Engine {
	p := Parameters{}
	if parameters != nil {
		p = *parameters
	}
	if p.DefaultLaneCapacity <= 0 {
		p.DefaultLaneCapacity = activity.LaneCapacity()
	}
	if p.MaxSlotsPerSubmission <= 0 {
		p.MaxSlotsPerSubmission = defaultMaxSlots
	}

	e := &Engine{
		parameters: &p,
		activity:   activity,
		slots:      make(map[domain.SlotKey]*domain.Placement),
	}

	for _, placement := range placements {
		if activity != nil && (placement.ActivityID != activity.ID || placement.Season != activity.Season) {
			continue
		}
		e.slots[placement.Key().Slot()] = placement
	}

	return e
}

// Recommend returns one entry per submission, in arrival order.
func (e *Engine) Recommend(submissions []*domain.Submission) []*domain.Recommendation {
	res := make([]*domain.Recommendation, 0, len(submissions))

	for _, s := range submissions {
		res = append(res, e.recommendFor(s))
	}

	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].SubmittedAt.Equal(res[j].SubmittedAt) {
			return res[i].SubmittedAt.Before(res[j].SubmittedAt)
		}
		return res[i].SubmissionID < res[j].SubmissionID
	})

	return res
}

func (e *Engine) recommendFor(s *domain.Submission) *domain.Recommendation {
	rec := &domain.Recommendation{
		SubmissionID:     s.ID,
		SwimmerName:      s.SwimmerName,
		ParentEmail:      s.ParentEmail,
		Level:            s.Level,
		SubmittedAt:      s.SubmittedAt,
		RecommendedSlots: make([]domain.RecommendedSlot, 0),
	}

	for _, slot := range s.Slots() {
		state := e.state(slot)

		if state.placement != nil && state.placement.LaneOf(s.ID) != 0 {
			continue
		}

		rec.RecommendedSlots = append(rec.RecommendedSlots, domain.RecommendedSlot{
			Location:           slot.Location,
			SlotLabel:          slot.Label,
			Reason:             reason(state),
			Priority:           priority(state, s.SubmittedAt.UnixMilli()),
			Available:          state.available,
			WaitlistCount:      state.waitlistCount,
			NeedsConfiguration: state.needsConfiguration,
		})
	}

	// stable so that equal priorities keep the parent's preference order
	sort.SliceStable(rec.RecommendedSlots, func(i, j int) bool {
		return rec.RecommendedSlots[i].Priority < rec.RecommendedSlots[j].Priority
	})

	if len(rec.RecommendedSlots) > e.parameters.MaxSlotsPerSubmission {
		rec.RecommendedSlots = rec.RecommendedSlots[:e.parameters.MaxSlotsPerSubmission]
	}

	return rec
}

func (e *Engine) state(slot domain.SlotKey) slotState {
	placement, ok := e.slots[slot]
	if !ok {
		return slotState{
			available:          int(e.parameters.DefaultLaneCapacity),
			needsConfiguration: true,
		}
	}

	return slotState{
		placement:     placement,
		available:     max(placement.TotalCapacity()-placement.UsedCapacity(), 0),
		waitlistCount: len(placement.Waitlist),
	}
}

func priority(state slotState, submittedAt int64) int64 {
	if state.available > 0 {
		return submittedAt
	}
	return waitlistBase + int64(state.waitlistCount)*waitlistStep + submittedAt
}

func reason(state slotState) string {
	if state.available > 0 {
		if state.available == 1 {
			return "Available capacity (1 spot open)"
		}
		return fmt.Sprintf("Available capacity (%d spots open)", state.available)
	}
	return fmt.Sprintf("Waitlist (%d in queue)", state.waitlistCount+1)
}
