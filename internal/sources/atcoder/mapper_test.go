package atcoder

import (
	"testing"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

func TestNormalizeConvertsToUTC(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	jst := time.FixedZone("JST", 9*60*60)

	contest, err := Normalize(Contest{
		Slug:     "abc400",
		Title:    "AtCoder Beginner Contest 400",
		StartsAt: time.Date(2026, 4, 5, 21, 0, 0, 0, jst),
		Duration: time.Hour + 40*time.Minute,
	}, now)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if contest.ID != "atcoder-abc400" {
		t.Errorf("ID = %q", contest.ID)
	}
	want := time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC)
	if !contest.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", contest.StartTime, want)
	}
	if contest.Duration != 6000 {
		t.Errorf("Duration = %d, want 6000", contest.Duration)
	}
	if contest.URL != "https://atcoder.jp/contests/abc400" {
		t.Errorf("URL = %q", contest.URL)
	}
	if contest.Status != domain.StatusUpcoming {
		t.Errorf("Status = %q", contest.Status)
	}
}
