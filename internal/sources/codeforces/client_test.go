package codeforces

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchFiltersLongEndedContests(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	upcoming := now.Add(24 * time.Hour).Unix()
	recentlyEnded := now.Add(-48 * time.Hour).Unix()
	ancient := now.Add(-30 * 24 * time.Hour).Unix()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contest.list" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("gym") != "false" {
			t.Errorf("gym param = %q", r.URL.Query().Get("gym"))
		}
		fmt.Fprintf(w, `{"status":"OK","result":[
			{"id":101,"name":"Upcoming","phase":"BEFORE","startTimeSeconds":%d,"durationSeconds":7200},
			{"id":100,"name":"Recent","phase":"FINISHED","startTimeSeconds":%d,"durationSeconds":7200},
			{"id":1,"name":"Ancient","phase":"FINISHED","startTimeSeconds":%d,"durationSeconds":7200}
		]}`, upcoming, recentlyEnded, ancient)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	client.now = func() time.Time { return now }

	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len = %d, want 2 (ancient contest filtered)", len(records))
	}
	for _, raw := range records {
		if raw.(Contest).Name == "Ancient" {
			t.Error("contest past the cutoff survived")
		}
	}
}

func TestFetchRejectsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"FAILED","comment":"limit exceeded"}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on api status FAILED")
	}
}

func TestFetchRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on status 502")
	}
}
