package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// maxLookback bounds the search for the previous trigger
const maxLookback = 366 * 24 * time.Hour

type TriggerInfo struct {
	Next       time.Time
	Last       time.Time
	Expression string

	TimeSinceLast time.Duration
	TimeUntilNext time.Duration
}

// GetTriggerInfo describes when a standard five-field expression (or a
// descriptor such as @hourly) last fired and fires next relative to refTime.
// Last is zero when the expression did not fire within the past year.
func GetTriggerInfo(cronExpr string, refTime time.Time) (*TriggerInfo, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	info := &TriggerInfo{
		Expression: cronExpr,
		Next:       schedule.Next(refTime),
	}
	info.TimeUntilNext = info.Next.Sub(refTime)

	if last, ok := previous(schedule, refTime); ok {
		info.Last = last
		info.TimeSinceLast = refTime.Sub(last)
	}
	return info, nil
}

// previous finds the latest trigger at or before ref by widening a lookback
// window until it contains one, then stepping forward to the last of them.
func previous(schedule cron.Schedule, ref time.Time) (time.Time, bool) {
	for window := time.Minute; window <= maxLookback; window *= 2 {
		t := schedule.Next(ref.Add(-window))
		if t.IsZero() || t.After(ref) {
			continue
		}
		for {
			next := schedule.Next(t)
			if next.IsZero() || next.After(ref) {
				return t, true
			}
			t = next
		}
	}
	return time.Time{}, false
}
