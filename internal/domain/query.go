package domain

import (
	"sort"
	"strings"
	"time"
)

// Sortable fields accepted by Query.SortBy.
const (
	SortByStartTime = "startTime"
	SortByDuration  = "duration"
	SortByPlatform  = "platform"
	SortByName      = "name"
)

// Query describes the in-memory filtering, sorting, and pagination applied
// to the full aggregate. The aggregation pipeline never pre-filters; the
// cache always holds the complete set and consumers narrow it per request.
type Query struct {
	Platform string
	Status   Status
	From     time.Time
	To       time.Time
	Search   string
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// Apply filters, sorts, and paginates contests according to the query.
// The input slice is not modified.
func (q Query) Apply(contests []Contest) []Contest {
	out := make([]Contest, 0, len(contests))
	for _, c := range contests {
		if q.matches(c) {
			out = append(out, c)
		}
	}
	q.sortContests(out)
	return q.paginate(out)
}

func (q Query) matches(c Contest) bool {
	if q.Platform != "" && !strings.Contains(strings.ToLower(c.Platform), strings.ToLower(q.Platform)) {
		return false
	}
	if q.Status != "" && c.Status != q.Status {
		return false
	}
	if !q.From.IsZero() && c.StartTime.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && c.StartTime.After(q.To) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Platform), needle) {
			return false
		}
	}
	return true
}

func (q Query) sortContests(contests []Contest) {
	field := q.SortBy
	if field == "" {
		field = SortByStartTime
	}
	desc := strings.EqualFold(q.Order, "desc")

	less := func(a, b Contest) bool {
		switch field {
		case SortByDuration:
			return a.Duration < b.Duration
		case SortByPlatform:
			return a.Platform < b.Platform
		case SortByName:
			return a.Name < b.Name
		default:
			return a.StartTime.Before(b.StartTime)
		}
	}

	sort.SliceStable(contests, func(i, j int) bool {
		if desc {
			return less(contests[j], contests[i])
		}
		return less(contests[i], contests[j])
	})
}

func (q Query) paginate(contests []Contest) []Contest {
	if q.Limit <= 0 {
		return contests
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * q.Limit
	if start >= len(contests) {
		return []Contest{}
	}
	end := start + q.Limit
	if end > len(contests) {
		end = len(contests)
	}
	return contests[start:end]
}
