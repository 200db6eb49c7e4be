package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rajeshuchil/contesthub/internal/app/contests"
)

func newAdminTestHandler(token string) (*AdminHandler, *stubCache) {
	cache := &stubCache{}
	return NewAdminHandler(contests.NewService(cache), token, nil), cache
}

func newAdminRequest(token, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminClearCache(t *testing.T) {
	h, cache := newAdminTestHandler("letmein")

	rec := httptest.NewRecorder()
	h.Admin(rec, newAdminRequest("letmein", `{"action":"clear-cache"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cache.cleared != 1 {
		t.Fatalf("cleared = %d, want 1", cache.cleared)
	}
}

func TestAdminRejectsBadToken(t *testing.T) {
	h, cache := newAdminTestHandler("letmein")

	for _, token := range []string{"", "wrong"} {
		rec := httptest.NewRecorder()
		h.Admin(rec, newAdminRequest(token, `{"action":"clear-cache"}`))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rec.Code)
		}
	}
	if cache.cleared != 0 {
		t.Fatal("cache cleared despite failed auth")
	}
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	h, _ := newAdminTestHandler("")

	rec := httptest.NewRecorder()
	h.Admin(rec, newAdminRequest("anything", `{"action":"clear-cache"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminUnknownAction(t *testing.T) {
	h, _ := newAdminTestHandler("letmein")

	rec := httptest.NewRecorder()
	h.Admin(rec, newAdminRequest("letmein", `{"action":"reboot"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
