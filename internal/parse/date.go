package parse

import (
	"fmt"
	"strings"
	"time"

	"medtrack-backend/internal/model"
)

// DateLayout is the ISO 8601 calendar-date form used by every date field.
const DateLayout = "2006-01-02"

// StatusAll is the wildcard accepted by the device status filter.
const StatusAll = "all"

// Date parses an ISO 8601 calendar date. A full RFC3339 timestamp is also
// accepted and truncated to its date part, since some clients send those.
func Date(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", raw)
}

// StatusFilter normalises the device status filter. An empty value means "all".
func StatusFilter(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, StatusAll) {
		return StatusAll, nil
	}
	switch model.DeviceStatus(s) {
	case model.DeviceOnline, model.DeviceOffline, model.DeviceMaintenance:
		return s, nil
	}
	return "", fmt.Errorf("unknown device status filter: %q", raw)
}
