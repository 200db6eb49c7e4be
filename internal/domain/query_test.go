package domain

import (
	"testing"
	"time"
)

func queryFixtures() []Contest {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Contest{
		{ID: "codeforces-1", Platform: "Codeforces", Name: "Div 2 Round", StartTime: base, Duration: 7200, Status: StatusUpcoming},
		{ID: "leetcode-1", Platform: "LeetCode", Name: "Weekly Contest 400", StartTime: base.Add(2 * time.Hour), Duration: 5400, Status: StatusUpcoming},
		{ID: "codechef-1", Platform: "CodeChef", Name: "Starters 120", StartTime: base.Add(-4 * time.Hour), Duration: 10800, Status: StatusEnded},
		{ID: "atcoder-1", Platform: "AtCoder", Name: "ABC 390", StartTime: base.Add(-time.Hour), Duration: 7200, Status: StatusOngoing},
	}
}

func TestQueryPlatformFilterIsCaseInsensitiveSubstring(t *testing.T) {
	got := Query{Platform: "code"}.Apply(queryFixtures())
	if len(got) != 3 {
		t.Fatalf("expected 3 contests, got %d", len(got))
	}
	for _, c := range got {
		if c.Platform == "LeetCode" {
			continue
		}
	}
	got = Query{Platform: "LEETCODE"}.Apply(queryFixtures())
	if len(got) != 1 || got[0].ID != "leetcode-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestQueryStatusFilter(t *testing.T) {
	got := Query{Status: StatusOngoing}.Apply(queryFixtures())
	if len(got) != 1 || got[0].ID != "atcoder-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestQueryDateRange(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got := Query{From: base.Add(-2 * time.Hour), To: base.Add(time.Hour)}.Apply(queryFixtures())
	if len(got) != 2 {
		t.Fatalf("expected 2 contests, got %d: %+v", len(got), got)
	}
}

func TestQuerySearchMatchesNameOrPlatform(t *testing.T) {
	got := Query{Search: "weekly"}.Apply(queryFixtures())
	if len(got) != 1 || got[0].ID != "leetcode-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	got = Query{Search: "atcoder"}.Apply(queryFixtures())
	if len(got) != 1 || got[0].ID != "atcoder-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestQueryDefaultSortIsStartTimeAscending(t *testing.T) {
	got := Query{}.Apply(queryFixtures())
	for i := 1; i < len(got); i++ {
		if got[i].StartTime.Before(got[i-1].StartTime) {
			t.Fatalf("not sorted ascending at %d", i)
		}
	}
}

func TestQuerySortDurationDescending(t *testing.T) {
	got := Query{SortBy: SortByDuration, Order: "desc"}.Apply(queryFixtures())
	for i := 1; i < len(got); i++ {
		if got[i].Duration > got[i-1].Duration {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
}

func TestQueryPagination(t *testing.T) {
	q := Query{SortBy: SortByName, Limit: 2}
	first := q.Apply(queryFixtures())
	if len(first) != 2 {
		t.Fatalf("expected 2 on first page, got %d", len(first))
	}
	q.Page = 2
	second := q.Apply(queryFixtures())
	if len(second) != 2 {
		t.Fatalf("expected 2 on second page, got %d", len(second))
	}
	if first[0].ID == second[0].ID {
		t.Fatal("pages overlap")
	}
	q.Page = 5
	if got := q.Apply(queryFixtures()); len(got) != 0 {
		t.Fatalf("expected empty page, got %d", len(got))
	}
}
