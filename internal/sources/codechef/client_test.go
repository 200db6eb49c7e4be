package codechef

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const listFixture = `{
	"status": "success",
	"present_contests": [
		{
			"contest_code": "START130",
			"contest_name": "Starters 130",
			"contest_start_date_iso": "2026-04-02T14:30:00+05:30",
			"contest_end_date_iso": "2026-04-02T16:30:00+05:30"
		}
	],
	"future_contests": [
		{
			"contest_code": "COOK170",
			"contest_name": "Cook-Off 170",
			"contest_start_date_iso": "2026-04-10T20:00:00+05:30",
			"contest_end_date_iso": "2026-04-10T22:30:00+05:30"
		}
	]
}`

func TestFetchMergesPresentAndFuture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list/contests/all" {
			t.Errorf("path = %q, want /list/contests/all", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listFixture))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first, ok := records[0].(Contest)
	if !ok {
		t.Fatalf("records[0] has type %T, want Contest", records[0])
	}
	if first.ContestCode != "START130" {
		t.Errorf("ContestCode = %q, want START130", first.ContestCode)
	}
	second, ok := records[1].(Contest)
	if !ok {
		t.Fatalf("records[1] has type %T, want Contest", records[1])
	}
	if second.ContestCode != "COOK170" {
		t.Errorf("ContestCode = %q, want COOK170", second.ContestCode)
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","present_contests":[],"future_contests":[]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() error = nil, want api status error")
	}
}

func TestFetchRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() error = nil, want status error")
	}
}
