package webhooks

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

// ErrWebhookNotFound is returned for operations on unknown webhook IDs.
var ErrWebhookNotFound = errors.New("webhook not found")

// Registry owns the set of registered webhooks. It is process-lifetime
// in-memory state, constructed once and injected wherever needed; all access
// is mutex-guarded.
type Registry struct {
	mu       sync.RWMutex
	webhooks map[string]*Webhook
	now      func() time.Time
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		webhooks: make(map[string]*Webhook),
		now:      time.Now,
	}
}

// Create validates and registers a new webhook.
func (r *Registry) Create(reg Registration) (Webhook, error) {
	if err := reg.Validate(); err != nil {
		return Webhook{}, err
	}

	statuses := make([]domain.Status, 0, len(reg.Statuses))
	for _, s := range reg.Statuses {
		statuses = append(statuses, domain.Status(s))
	}

	now := r.now().UTC()
	hook := &Webhook{
		ID:        newWebhookID(),
		URL:       reg.URL,
		Events:    append([]string(nil), reg.Events...),
		Platforms: append([]string(nil), reg.Platforms...),
		Statuses:  statuses,
		Secret:    reg.Secret,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.webhooks[hook.ID] = hook
	r.mu.Unlock()
	return *hook, nil
}

// Get returns a webhook by ID.
func (r *Registry) Get(id string) (Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hook, ok := r.webhooks[id]
	if !ok {
		return Webhook{}, ErrWebhookNotFound
	}
	return *hook, nil
}

// List returns all webhooks ordered by creation time.
func (r *Registry) List() []Webhook {
	r.mu.RLock()
	out := make([]Webhook, 0, len(r.webhooks))
	for _, hook := range r.webhooks {
		out = append(out, *hook)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes a webhook.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[id]; !ok {
		return ErrWebhookNotFound
	}
	delete(r.webhooks, id)
	return nil
}

// Activate re-enables a deactivated webhook and resets its failure streak.
func (r *Registry) Activate(id string) (Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook, ok := r.webhooks[id]
	if !ok {
		return Webhook{}, ErrWebhookNotFound
	}
	hook.Active = true
	hook.FailureCount = 0
	hook.UpdatedAt = r.now().UTC()
	return *hook, nil
}

// ActiveFor returns the active webhooks subscribed to the event whose
// filters match the contest.
func (r *Registry) ActiveFor(event string, c domain.Contest) []Webhook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Webhook
	for _, hook := range r.webhooks {
		if !hook.Active {
			continue
		}
		subscribed := false
		for _, e := range hook.Events {
			if e == event {
				subscribed = true
				break
			}
		}
		if !subscribed || !hook.matches(c) {
			continue
		}
		out = append(out, *hook)
	}
	return out
}

// RecordSuccess resets the failure streak and counts a delivery.
func (r *Registry) RecordSuccess(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook, ok := r.webhooks[id]
	if !ok {
		return
	}
	hook.TriggerCount++
	hook.FailureCount = 0
	hook.UpdatedAt = r.now().UTC()
}

// RecordFailure increments the failure streak and deactivates the webhook
// once it reaches MaxConsecutiveFailures. Returns true when the webhook was
// deactivated by this call.
func (r *Registry) RecordFailure(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook, ok := r.webhooks[id]
	if !ok {
		return false
	}
	hook.FailureCount++
	hook.UpdatedAt = r.now().UTC()
	if hook.FailureCount >= MaxConsecutiveFailures && hook.Active {
		hook.Active = false
		return true
	}
	return false
}

func newWebhookID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "wh-" + hex.EncodeToString([]byte(time.Now().Format("20060102150405.000000000")))
	}
	return "wh-" + hex.EncodeToString(b[:])
}
