package models

import "time"

// Event is a timestamped occurrence of a behavior.
//
// CircleType is copied from the referenced behavior when the event is logged
// and must equal that behavior's circle. BehaviorID is a weak reference: the
// behavior may be deleted later and readers must tolerate the dangling id.
type Event struct {
	ID         string
	BehaviorID string
	CircleType CircleType
	Timestamp  time.Time
	Note       string
}

// NewEvent carries the caller-supplied fields of an event to log.
// CircleType may be left empty when BehaviorID refers to a known behavior.
type NewEvent struct {
	BehaviorID string
	CircleType CircleType
	Note       string
}
