package worldtime

import "errors"

// ErrNegativeAdvance rejects any attempt to rewind the clock.
var ErrNegativeAdvance = errors.New("clock cannot advance by negative minutes")

const minutesPerDay = 24 * 60

// Clock holds the single monotonically increasing minute counter for a
// session. Day/hour/minute are derived, never stored.
type Clock struct {
	TotalMinutes int64 `json:"total_minutes"`
}

// Advance moves the clock forward. Zero is a no-op, negatives are rejected.
func (c *Clock) Advance(minutes int64) error {
	if minutes < 0 {
		return ErrNegativeAdvance
	}
	c.TotalMinutes += minutes
	return nil
}

// Day starts at 1.
func (c Clock) Day() int {
	return int(c.TotalMinutes/minutesPerDay) + 1
}

func (c Clock) Hour() int {
	return int(c.TotalMinutes%minutesPerDay) / 60
}

func (c Clock) Minute() int {
	return int(c.TotalMinutes % 60)
}
