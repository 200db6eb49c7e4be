package webhooks

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rajeshuchil/contesthub/internal/domain"
)

// Event names deliverable to webhooks. Only contest.new exists today.
const EventContestNew = "contest.new"

// MaxConsecutiveFailures is the failure streak after which a webhook is
// deactivated; no further deliveries are attempted until it is manually
// reactivated.
const MaxConsecutiveFailures = 5

// Webhook is a registered delivery target. Platforms and Statuses narrow
// which contests trigger it; empty means all.
type Webhook struct {
	ID           string          `json:"id"`
	URL          string          `json:"url"`
	Events       []string        `json:"events"`
	Platforms    []string        `json:"platforms,omitempty"`
	Statuses     []domain.Status `json:"statuses,omitempty"`
	Secret       string          `json:"-"`
	Active       bool            `json:"active"`
	TriggerCount int             `json:"triggerCount"`
	FailureCount int             `json:"failureCount"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Registration is the validated input for creating a webhook.
type Registration struct {
	URL       string   `json:"url" validate:"required,url"`
	Events    []string `json:"events" validate:"required,min=1,dive,oneof=contest.new"`
	Platforms []string `json:"platforms" validate:"omitempty,dive,min=1"`
	Statuses  []string `json:"statuses" validate:"omitempty,dive,oneof=upcoming ongoing ended"`
	Secret    string   `json:"secret" validate:"omitempty,min=8"`
}

var validate = validator.New()

// Validate checks the registration fields.
func (r Registration) Validate() error {
	return validate.Struct(r)
}

// matches reports whether the contest passes the webhook's platform and
// status filters.
func (w *Webhook) matches(c domain.Contest) bool {
	if len(w.Platforms) > 0 && !containsFold(w.Platforms, c.Platform) {
		return false
	}
	if len(w.Statuses) > 0 {
		found := false
		for _, s := range w.Statuses {
			if s == c.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
