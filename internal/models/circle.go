package models

import (
	"fmt"
	"strings"
)

// CircleType classifies a behavior into one of the three circles.
type CircleType string

const (
	// CircleInner holds behaviors the user wants to eliminate.
	CircleInner CircleType = "inner"
	// CircleMiddle holds risk indicators.
	CircleMiddle CircleType = "middle"
	// CircleOuter holds positive, protective behaviors.
	CircleOuter CircleType = "outer"
)

// AllCircles lists the circles from innermost to outermost.
var AllCircles = []CircleType{CircleInner, CircleMiddle, CircleOuter}

// Valid reports whether c is one of the three known circles.
func (c CircleType) Valid() bool {
	switch c {
	case CircleInner, CircleMiddle, CircleOuter:
		return true
	}
	return false
}

// Label returns the capitalized circle name, e.g. "Inner".
func (c CircleType) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseCircleType parses a circle name case-insensitively.
func ParseCircleType(s string) (CircleType, error) {
	c := CircleType(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid circle %q (expected inner, middle or outer)", s)
	}
	return c, nil
}

// CircleCounts holds a per-circle event count.
type CircleCounts struct {
	Inner  int `json:"inner"`
	Middle int `json:"middle"`
	Outer  int `json:"outer"`
}

// Add increments the counter for circle c. Unknown circles are ignored.
func (cc *CircleCounts) Add(c CircleType) {
	switch c {
	case CircleInner:
		cc.Inner++
	case CircleMiddle:
		cc.Middle++
	case CircleOuter:
		cc.Outer++
	}
}

// Get returns the count for circle c.
func (cc CircleCounts) Get(c CircleType) int {
	switch c {
	case CircleInner:
		return cc.Inner
	case CircleMiddle:
		return cc.Middle
	case CircleOuter:
		return cc.Outer
	}
	return 0
}

func (cc CircleCounts) Total() int {
	return cc.Inner + cc.Middle + cc.Outer
}
