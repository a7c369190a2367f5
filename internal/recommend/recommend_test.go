package recommend_test

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/recommend"
)

func newSubmission(id string, at int64, prefs ...domain.Preference) *domain.Submission {
	return &domain.Submission{
		ID:          id,
		Season:      "summer-2025",
		SwimmerName: "swimmer " + id,
		ParentEmail: id + "@example.com",
		Level:       domain.LevelBeginner,
		Preferences: prefs,
		SubmittedAt: time.UnixMilli(at),
	}
}

func poolA(labels ...string) domain.Preference {
	return domain.Preference{Location: "PoolA", Selections: labels}
}

func fullPlacement(activity *domain.Activity, label string, waitlist int) *domain.Placement {
	p := &domain.Placement{
		ActivityID: activity.ID,
		Season:     activity.Season,
		Location:   "PoolA",
		SlotLabel:  label,
		Lanes: []domain.Lane{{
			LaneNumber: 1,
			Capacity:   3,
			Swimmers:   []domain.LaneSwimmer{{SubmissionID: "p1"}, {SubmissionID: "p2"}, {SubmissionID: "p3"}},
		}},
	}
	for i := 0; i < waitlist; i++ {
		p.Waitlist = append(p.Waitlist, domain.WaitlistEntry{SubmissionID: fmt.Sprintf("w%d", i), WaitlistOrder: int32(i)})
	}
	return p
}

func TestEngine(t *testing.T) {
	activity := &domain.Activity{ID: 1, Season: "summer-2025", Name: "Stroke clinic"}

	Convey("Given an activity without any placements", t, func() {
		engine := recommend.New(nil, activity, nil)

		Convey("When two swimmers pick the same slot", func() {
			x := newSubmission("X", 100, poolA("Mon 9AM"))
			y := newSubmission("Y", 200, poolA("Mon 9AM"))
			recs := engine.Recommend([]*domain.Submission{y, x})

			Convey("Then both get the default capacity in arrival order", func() {
				So(recs, ShouldHaveLength, 2)
				So(recs[0].SubmissionID, ShouldEqual, "X")
				So(recs[1].SubmissionID, ShouldEqual, "Y")

				slotX := recs[0].RecommendedSlots[0]
				slotY := recs[1].RecommendedSlots[0]
				So(slotX.Priority, ShouldEqual, int64(100))
				So(slotY.Priority, ShouldEqual, int64(200))
				So(slotX.Priority, ShouldBeLessThan, slotY.Priority)
				So(slotX.Reason, ShouldEqual, "Available capacity (3 spots open)")
				So(slotY.Reason, ShouldEqual, "Available capacity (3 spots open)")
				So(slotX.NeedsConfiguration, ShouldBeTrue)
			})
		})

		Convey("When a submission has no preferences", func() {
			recs := engine.Recommend([]*domain.Submission{newSubmission("Z", 5)})

			Convey("Then it is still listed with no slots", func() {
				So(recs, ShouldHaveLength, 1)
				So(recs[0].RecommendedSlots, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a full slot with two swimmers on the waitlist", t, func() {
		engine := recommend.New(nil, activity, []*domain.Placement{fullPlacement(activity, "Mon 9AM", 2)})

		Convey("When a new swimmer asks for it", func() {
			recs := engine.Recommend([]*domain.Submission{newSubmission("N", 500, poolA("Mon 9AM"))})
			slot := recs[0].RecommendedSlots[0]

			Convey("Then the slot is waitlist-bound", func() {
				So(slot.Priority, ShouldEqual, int64(1_000_000+2_000+500))
				So(slot.Reason, ShouldEqual, "Waitlist (3 in queue)")
				So(slot.Available, ShouldEqual, 0)
				So(slot.WaitlistCount, ShouldEqual, 2)
				So(slot.NeedsConfiguration, ShouldBeFalse)
			})
		})

		Convey("When a swimmer already sits in a lane of that slot", func() {
			recs := engine.Recommend([]*domain.Submission{newSubmission("p2", 10, poolA("Mon 9AM", "Tue 9AM"))})

			Convey("Then that slot is skipped", func() {
				So(recs[0].RecommendedSlots, ShouldHaveLength, 1)
				So(recs[0].RecommendedSlots[0].SlotLabel, ShouldEqual, "Tue 9AM")
			})
		})
	})

	Convey("Given a mix of open and full slots for one swimmer", t, func() {
		placements := []*domain.Placement{
			fullPlacement(activity, "Mon 9AM", 0),
			fullPlacement(activity, "Wed 9AM", 4),
			{
				ActivityID: activity.ID,
				Season:     activity.Season,
				Location:   "PoolA",
				SlotLabel:  "Fri 9AM",
				Lanes: []domain.Lane{
					{LaneNumber: 1, Capacity: 3, Swimmers: []domain.LaneSwimmer{{SubmissionID: "a"}, {SubmissionID: "b"}, {SubmissionID: "c"}}},
					{LaneNumber: 2, Capacity: 2, Swimmers: []domain.LaneSwimmer{{SubmissionID: "d"}}},
				},
			},
		}
		engine := recommend.New(nil, activity, placements)

		recs := engine.Recommend([]*domain.Submission{newSubmission("S", 900, poolA("Wed 9AM", "Mon 9AM", "Fri 9AM", "Sun 9AM"))})
		slots := recs[0].RecommendedSlots

		Convey("Then open slots come first and shorter queues before longer ones", func() {
			So(slots, ShouldHaveLength, 4)
			So(slots[0].SlotLabel, ShouldEqual, "Fri 9AM")
			So(slots[0].Reason, ShouldEqual, "Available capacity (1 spot open)")
			So(slots[1].SlotLabel, ShouldEqual, "Sun 9AM")
			So(slots[2].SlotLabel, ShouldEqual, "Mon 9AM")
			So(slots[3].SlotLabel, ShouldEqual, "Wed 9AM")

			for _, open := range slots[:2] {
				for _, full := range slots[2:] {
					So(open.Priority, ShouldBeLessThan, full.Priority)
				}
			}
		})
	})

	Convey("Given a swimmer with more than ten preferred slots", t, func() {
		labels := make([]string, 0, 14)
		for i := 0; i < 14; i++ {
			labels = append(labels, fmt.Sprintf("Slot %02d", i))
		}
		engine := recommend.New(nil, activity, nil)
		recs := engine.Recommend([]*domain.Submission{newSubmission("L", 1, poolA(labels...))})

		Convey("Then only the top ten are kept in preference order", func() {
			So(recs[0].RecommendedSlots, ShouldHaveLength, 10)
			So(recs[0].RecommendedSlots[0].SlotLabel, ShouldEqual, "Slot 00")
			So(recs[0].RecommendedSlots[9].SlotLabel, ShouldEqual, "Slot 09")
		})
	})

	Convey("Given an activity with a configured default lane capacity", t, func() {
		camp := &domain.Activity{ID: 2, Season: "summer-2025", DefaultLaneCapacity: 6}
		other := fullPlacement(activity, "Mon 9AM", 9)
		engine := recommend.New(&recommend.Parameters{MaxSlotsPerSubmission: 1}, camp, []*domain.Placement{other})

		recs := engine.Recommend([]*domain.Submission{newSubmission("C", 1, poolA("Mon 9AM", "Tue 9AM"))})

		Convey("Then unconfigured slots assume that capacity and other activities are ignored", func() {
			So(recs[0].RecommendedSlots, ShouldHaveLength, 1)
			So(recs[0].RecommendedSlots[0].Reason, ShouldEqual, "Available capacity (6 spots open)")
			So(recs[0].RecommendedSlots[0].NeedsConfiguration, ShouldBeTrue)
		})
	})
}
