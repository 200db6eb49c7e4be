package hackerrank

import (
	"testing"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

func TestNormalizeDerivesDuration(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(72 * time.Hour)

	contest, err := Normalize(Contest{
		Slug:           "march-circuits-26",
		Name:           "March Circuits '26",
		EpochStartTime: start.Unix(),
		EpochEndTime:   start.Add(9 * 24 * time.Hour).Unix(),
	}, now)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if contest.ID != "hackerrank-march-circuits-26" {
		t.Errorf("ID = %q", contest.ID)
	}
	if contest.Duration != 9*24*60*60 {
		t.Errorf("Duration = %d", contest.Duration)
	}
	if contest.Status != domain.StatusUpcoming {
		t.Errorf("Status = %q", contest.Status)
	}
}

func TestNormalizeRejectsEndBeforeStart(t *testing.T) {
	now := time.Now()
	_, err := Normalize(Contest{
		Slug:           "broken",
		EpochStartTime: now.Unix(),
		EpochEndTime:   now.Add(-time.Hour).Unix(),
	}, now)
	if err == nil {
		t.Fatal("expected error when end precedes start")
	}
}
