package enrich

import (
	"context"
	"fmt"
	"time"
)

// TimeService renders the current date and time in a configured timezone.
type TimeService struct {
	location *time.Location
	now      func() time.Time
}

// NewTimeService creates a time service for the given IANA timezone name.
func NewTimeService(timezone string) (*TimeService, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &TimeService{location: loc, now: time.Now}, nil
}

// NewTimeServiceAt creates a time service with a fixed clock, for tests.
func NewTimeServiceAt(timezone string, now func() time.Time) (*TimeService, error) {
	svc, err := NewTimeService(timezone)
	if err != nil {
		return nil, err
	}
	svc.now = now
	return svc, nil
}

// Summary returns a human-readable description of the current date and time.
func (s *TimeService) Summary(ctx context.Context) (string, error) {
	now := s.now().In(s.location)

	summary := fmt.Sprintf(`Current Date and Time:
Date: %s
Time: %s (%s)
Day: %s
Month: %s %d
Timezone: %s
Formatted: %s`,
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		now.Format("03:04 PM"),
		now.Weekday(),
		now.Month(), now.Year(),
		s.location.String(),
		now.Format("Monday, January 2, 2006 at 03:04 PM"),
	)
	return summary, nil
}
