package node

import "github.com/google/uuid"

// DefaultMarker is the sentinel conventionally embedded into target templates.
const DefaultMarker = "***"

// UniqueMarker returns a marker that cannot plausibly collide with real data.
func UniqueMarker() string {
	return "*" + uuid.NewString() + "*"
}
