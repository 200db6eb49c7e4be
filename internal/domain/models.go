package domain

import "time"

// Status mirrors the shared contract for contest lifecycle states.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusEnded    Status = "ended"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusEnded:
		return true
	}
	return false
}

// Contest is the canonical contest shape exposed by the service.
// StartTime is always UTC; Duration is the contest length in seconds.
// Status is derived from (StartTime, Duration) at materialization time
// and must never be trusted from a cached copy without recomputation.
type Contest struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	Duration  int64     `json:"duration"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
}

// EndTime returns the instant the contest finishes.
func (c Contest) EndTime() time.Time {
	return c.StartTime.Add(time.Duration(c.Duration) * time.Second)
}

// CalculateStatus derives the lifecycle state of a contest at the given
// instant. Boundaries: now == start yields ongoing, now == end yields ended.
func CalculateStatus(start time.Time, durationSeconds int64, now time.Time) Status {
	if now.Before(start) {
		return StatusUpcoming
	}
	if now.Before(start.Add(time.Duration(durationSeconds) * time.Second)) {
		return StatusOngoing
	}
	return StatusEnded
}

// WithStatus returns a copy of the contest with its status recomputed at now.
func (c Contest) WithStatus(now time.Time) Contest {
	c.Status = CalculateStatus(c.StartTime, c.Duration, now)
	return c
}

// RecomputeStatuses refreshes the status of every contest in place-order,
// returning a new slice. Cached contest lists are served for minutes after
// aggregation, so statuses are refreshed on every read.
func RecomputeStatuses(contests []Contest, now time.Time) []Contest {
	out := make([]Contest, len(contests))
	for i, c := range contests {
		out[i] = c.WithStatus(now)
	}
	return out
}
