package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeServiceSummary(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	svc, err := NewTimeServiceAt("UTC", func() time.Time { return fixed })
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Contains(t, summary, "Current Date and Time:")
	assert.Contains(t, summary, "Date: 2026-03-14")
	assert.Contains(t, summary, "Time: 15:30:00 (03:30 PM)")
	assert.Contains(t, summary, "Day: Saturday")
	assert.Contains(t, summary, "Month: March 2026")
	assert.Contains(t, summary, "Timezone: UTC")
	assert.Contains(t, summary, "Formatted: Saturday, March 14, 2026 at 03:30 PM")
}

func TestTimeServiceConvertsToConfiguredZone(t *testing.T) {
	// 12:00 UTC is 14:00 in Cairo in mid-January (UTC+2, outside DST).
	fixed := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	svc, err := NewTimeServiceAt("Africa/Cairo", func() time.Time { return fixed })
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Contains(t, summary, "Time: 14:00:00")
	assert.Contains(t, summary, "Timezone: Africa/Cairo")
}

func TestNewTimeServiceRejectsUnknownZone(t *testing.T) {
	_, err := NewTimeService("Nowhere/Invalid")
	assert.Error(t, err)
}
