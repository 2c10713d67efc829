package models

// Behavior is a named, user-defined activity classified into one circle.
// Behaviors are never mutated after creation.
type Behavior struct {
	ID          string     `json:"id"`
	CircleType  CircleType `json:"circleType"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
}

// NewBehavior carries the caller-supplied fields of a behavior to create.
type NewBehavior struct {
	CircleType  CircleType
	Name        string
	Description string
}
