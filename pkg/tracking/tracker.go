package tracking

import (
	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/signal"
)

const DefaultNotificationRadiusMeters = 200.0

// ProximityTracker decides which signals a moving vehicle has newly entered
// range of, and remembers the ones already reported so each signal is
// notified at most once per case.
//
// the tracker is not synchronized; the coordination hub owns it for the
// duration of one active case and serializes all access.
type ProximityTracker struct {
	radiusMeters float64
	notified     map[signal.ID]struct{}
}

func NewProximityTracker(radiusMeters float64) *ProximityTracker {
	if radiusMeters <= 0 {
		radiusMeters = DefaultNotificationRadiusMeters
	}
	return &ProximityTracker{
		radiusMeters: radiusMeters,
		notified:     make(map[signal.ID]struct{}),
	}
}

// CheckProximity returns the candidates within the notification radius of
// vehiclePos that have not been reported before, and marks them reported.
// calling again with the same position yields nothing new.
func (t *ProximityTracker) CheckProximity(vehiclePos geo.Coordinate, candidates []signal.Point) []signal.Point {
	var entered []signal.Point
	for _, cand := range candidates {
		if _, seen := t.notified[cand.GetID()]; seen {
			continue
		}
		if geo.HaversineDistance(vehiclePos, cand.GetCoordinate()) <= t.radiusMeters {
			t.notified[cand.GetID()] = struct{}{}
			entered = append(entered, cand)
		}
	}
	return entered
}

// Reset clears the reported set. called once, when a request is accepted.
func (t *ProximityTracker) Reset() {
	t.notified = make(map[signal.ID]struct{})
}

func (t *ProximityTracker) NotifiedCount() int {
	return len(t.notified)
}
