package monitor

import (
	"context"
	"fmt"
	"time"

	"medtrack-backend/internal/metrics"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/store"
)

// Acknowledge marks an active alert as seen.
func Acknowledge(ctx context.Context, s store.Store, id string, at time.Time) (model.Alert, error) {
	return transition(ctx, s, id, "acknowledged", func(a *model.Alert) error {
		return a.Acknowledge(at.UTC())
	})
}

// Resolve closes an active or acknowledged alert.
func Resolve(ctx context.Context, s store.Store, id string, at time.Time) (model.Alert, error) {
	return transition(ctx, s, id, "resolved", func(a *model.Alert) error {
		return a.Resolve(at.UTC())
	})
}

// transition checks and applies a status change while the alert collection
// is held, so a concurrent acknowledge cannot overwrite a resolve.
func transition(ctx context.Context, s store.Store, id, event string, apply func(*model.Alert) error) (model.Alert, error) {
	alert, outcome, err := s.Alerts().Modify(ctx, id, apply)
	if err != nil {
		return model.Alert{}, err
	}
	if outcome == store.OutcomeNotFound {
		return model.Alert{}, fmt.Errorf("alert %q: %w", id, store.ErrNotFound)
	}
	metrics.IncAlertEvent(string(alert.Type), event)
	return alert, nil
}
