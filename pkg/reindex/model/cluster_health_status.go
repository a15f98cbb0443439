package model

import "strings"

// ClusterHealthStatus is the health colour reported by the cluster or by a single index.
// The zero value is Red so an unknown status is never mistaken for a usable one.
type ClusterHealthStatus int

const (
	Red ClusterHealthStatus = iota
	Yellow
	Green
)

func ParseClusterHealthStatus(status string) ClusterHealthStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "green":
		return Green
	case "yellow":
		return Yellow
	default:
		return Red
	}
}

// AtLeast reports whether s is as healthy as other or healthier.
func (s ClusterHealthStatus) AtLeast(other ClusterHealthStatus) bool {
	return s >= other
}

// Serving is true for Green and Yellow: all primaries are assigned and the index accepts writes.
func (s ClusterHealthStatus) Serving() bool {
	return s.AtLeast(Yellow)
}

func (s ClusterHealthStatus) String() string {
	switch s {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	default:
		return "red"
	}
}
