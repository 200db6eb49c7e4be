package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/metrics"
)

const (
	defaultDeliveryTimeout = 10 * time.Second

	// SecretHeader carries the webhook's shared secret so receivers can
	// verify the sender.
	SecretHeader = "X-Webhook-Secret"
)

// Payload is the JSON body posted to webhook receivers.
type Payload struct {
	Event     string         `json:"event"`
	Contest   domain.Contest `json:"contest"`
	Timestamp time.Time      `json:"timestamp"`
}

// Dispatcher delivers events to registered webhooks. Delivery is
// fire-and-forget per webhook: a failed POST only updates that webhook's
// failure streak.
type Dispatcher struct {
	registry *Registry
	client   *http.Client
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
}

// NewDispatcher constructs a Dispatcher over the registry.
func NewDispatcher(registry *Registry, client *http.Client, logger *slog.Logger, recorder *metrics.Recorder) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: defaultDeliveryTimeout}
	}
	return &Dispatcher{
		registry: registry,
		client:   client,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
	}
}

// NotifyNewContests delivers a contest.new event for each contest to every
// matching active webhook.
func (d *Dispatcher) NotifyNewContests(ctx context.Context, contests []domain.Contest) {
	for _, contest := range contests {
		for _, hook := range d.registry.ActiveFor(EventContestNew, contest) {
			d.deliver(ctx, hook, EventContestNew, contest)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, hook Webhook, event string, contest domain.Contest) {
	err := d.post(ctx, hook, Payload{
		Event:     event,
		Contest:   contest,
		Timestamp: d.now().UTC(),
	})
	if d.metrics != nil {
		d.metrics.RecordWebhookDelivery(event, err)
	}
	if err != nil {
		deactivated := d.registry.RecordFailure(hook.ID)
		d.logWarn("webhook delivery failed",
			"webhook_id", hook.ID,
			"event", event,
			"err", err,
		)
		if deactivated {
			d.logWarn("webhook deactivated after repeated failures",
				"webhook_id", hook.ID,
				"failures", MaxConsecutiveFailures,
			)
		}
		return
	}
	d.registry.RecordSuccess(hook.ID)
}

func (d *Dispatcher) post(ctx context.Context, hook Webhook, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if hook.Secret != "" {
		req.Header.Set(SecretHeader, hook.Secret)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook receiver returned status %d", resp.StatusCode)
	}
	return nil
}

func (d *Dispatcher) logWarn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
