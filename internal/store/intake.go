package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medtrack-backend/internal/model"
)

const maxIntakeAttempts = 5

// ScheduleInstallation creates a Scheduled installation from a draft. The id is
// derived from now in milliseconds; when it collides the timestamp is moved
// forward by one millisecond and the add is retried.
func ScheduleInstallation(ctx context.Context, s Store, draft model.InstallationDraft, now time.Time) (model.Installation, error) {
	inst := model.Installation{
		DeviceID:         draft.DeviceID,
		FacilityName:     draft.FacilityName,
		InstallationDate: draft.InstallationDate,
		Technician:       draft.Technician,
		Status:           model.WorkScheduled,
		Checklist:        draft.Checklist,
		Photos:           []string{},
		Notes:            draft.Notes,
	}

	stamp := now.UnixMilli()
	for attempt := 0; attempt < maxIntakeAttempts; attempt++ {
		inst.ID = fmt.Sprintf("INST%d", stamp+int64(attempt))
		err := s.Installations().Add(ctx, inst)
		if err == nil {
			return inst, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return model.Installation{}, err
		}
	}
	return model.Installation{}, fmt.Errorf("schedule installation after %d attempts: %w", maxIntakeAttempts, ErrDuplicateID)
}
