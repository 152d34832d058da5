package planner

import (
	"time"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

// due reports whether a blueprint with the given last-successful-run time
// should run now. Absence of a last run always means due (spec §4.2).
func due(lastRun *time.Time, interval catalog.Interval, now time.Time) bool {
	if lastRun == nil {
		return true
	}
	nextDue := interval.NextDue(*lastRun)
	return !nextDue.After(now)
}
