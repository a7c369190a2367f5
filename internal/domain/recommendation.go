package domain

import "time"

type RecommendedSlot struct {
	Location           string `json:"location"`
	SlotLabel          string `json:"slotLabel"`
	Reason             string `json:"reason"`
	Priority           int64  `json:"priority"`
	Available          int    `json:"available"`
	WaitlistCount      int    `json:"waitlistCount"`
	NeedsConfiguration bool   `json:"needsConfiguration"`
}

type Recommendation struct {
	SubmissionID     string            `json:"submissionID"`
	SwimmerName      string            `json:"swimmerName"`
	ParentEmail      string            `json:"parentEmail"`
	Level            Level             `json:"level"`
	SubmittedAt      time.Time         `json:"submittedAt"`
	RecommendedSlots []RecommendedSlot `json:"recommendedSlots"`
}
