package recommend

import "github.com/bluewave-swim/backoffice/backend/internal/domain"

const (
	// waitlistBase pushes every full slot behind every slot with open capacity.
	waitlistBase int64 = 1_000_000
	// waitlistStep spreads applicants toward slots with shorter queues.
	waitlistStep int64 = 1_000

	defaultMaxSlots = 10
)

// Parameters tune the engine.
type Parameters struct {
	DefaultLaneCapacity   int32 // capacity assumed for a slot without a placement
	MaxSlotsPerSubmission int   // how many slots to keep per swimmer
}

// slotState is the capacity picture of one slot at read time.
type slotState struct {
	placement          *domain.Placement // nil when the slot is not configured yet
	available          int
	waitlistCount      int
	needsConfiguration bool
}
