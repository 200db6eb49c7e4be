package webhooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

func TestNotifyNewContestsDeliversPayload(t *testing.T) {
	var gotSecret atomic.Value
	var gotPayload atomic.Value
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret.Store(r.Header.Get(SecretHeader))
		body, _ := io.ReadAll(r.Body)
		var p Payload
		require.NoError(t, json.Unmarshal(body, &p))
		gotPayload.Store(p)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer receiver.Close()

	reg := NewRegistry()
	hook, err := reg.Create(Registration{
		URL:    receiver.URL,
		Events: []string{EventContestNew},
		Secret: "super-secret-value",
	})
	require.NoError(t, err)

	d := NewDispatcher(reg, receiver.Client(), nil, nil)
	contest := domain.Contest{
		ID:       "codeforces-101",
		Platform: "Codeforces",
		Name:     "Round 101",
		Status:   domain.StatusUpcoming,
	}
	d.NotifyNewContests(context.Background(), []domain.Contest{contest})

	assert.Equal(t, "super-secret-value", gotSecret.Load())
	payload, ok := gotPayload.Load().(Payload)
	require.True(t, ok, "receiver never saw a payload")
	assert.Equal(t, EventContestNew, payload.Event)
	assert.Equal(t, "codeforces-101", payload.Contest.ID)
	assert.False(t, payload.Timestamp.IsZero())

	updated, err := reg.Get(hook.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TriggerCount)
}

func TestDeliveryFailureCountsAndDeactivates(t *testing.T) {
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer receiver.Close()

	reg := NewRegistry()
	hook, err := reg.Create(Registration{
		URL:    receiver.URL,
		Events: []string{EventContestNew},
	})
	require.NoError(t, err)

	d := NewDispatcher(reg, receiver.Client(), nil, nil)
	contest := domain.Contest{ID: "codeforces-101", Platform: "Codeforces"}

	for i := 0; i < MaxConsecutiveFailures; i++ {
		d.NotifyNewContests(context.Background(), []domain.Contest{contest})
	}

	updated, err := reg.Get(hook.ID)
	require.NoError(t, err)
	assert.False(t, updated.Active, "webhook should deactivate after repeated failures")
	assert.Equal(t, MaxConsecutiveFailures, updated.FailureCount)

	// Further notifications skip the deactivated webhook.
	d.NotifyNewContests(context.Background(), []domain.Contest{contest})
	final, err := reg.Get(hook.ID)
	require.NoError(t, err)
	assert.Equal(t, MaxConsecutiveFailures, final.FailureCount)
}

func TestNotifySkipsNonMatchingWebhooks(t *testing.T) {
	var calls atomic.Int32
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer receiver.Close()

	reg := NewRegistry()
	_, err := reg.Create(Registration{
		URL:       receiver.URL,
		Events:    []string{EventContestNew},
		Platforms: []string{"LeetCode"},
	})
	require.NoError(t, err)

	d := NewDispatcher(reg, receiver.Client(), nil, nil)
	d.NotifyNewContests(context.Background(), []domain.Contest{
		{ID: "codeforces-101", Platform: "Codeforces"},
	})

	assert.Zero(t, calls.Load())
}
