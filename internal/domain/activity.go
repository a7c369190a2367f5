package domain

import "time"

type ActivityKind string

const (
	ActivityKindClinic ActivityKind = "clinic"
	ActivityKindCamp   ActivityKind = "camp"
)

type ActivityLocation struct {
	Location string   `json:"location"`
	Slots    []string `json:"slots"`
}

type Activity struct {
	ID                  int64              `json:"id"`
	Season              string             `json:"season"`
	Name                string             `json:"name"`
	Kind                ActivityKind       `json:"kind"`
	DefaultLaneCapacity int32              `json:"defaultLaneCapacity"`
	Locations           []ActivityLocation `json:"locations"`
	CreatedAt           time.Time          `json:"createdAt"`
	Version             int32              `json:"version"`
}

// LaneCapacity is the capacity assumed for a slot nobody has configured yet.
func (a *Activity) LaneCapacity() int32 {
	if a == nil || a.DefaultLaneCapacity <= 0 {
		return DefaultLaneCapacity
	}
	return a.DefaultLaneCapacity
}
