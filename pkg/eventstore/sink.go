package eventstore

import (
	"context"
	"time"

	"github.com/lifeline-ems/corridor/pkg/signal"
)

// SignalEvent records one signal entering notification range of the vehicle.
type SignalEvent struct {
	Signal        signal.Point
	Direction     string
	FromDirection string
	Timestamp     time.Time
}

func NewSignalEvent(sp signal.Point, direction, fromDirection string, ts time.Time) SignalEvent {
	return SignalEvent{
		Signal:        sp,
		Direction:     direction,
		FromDirection: fromDirection,
		Timestamp:     ts,
	}
}

// Sink persists signal events in batches. persistence is best effort: errors
// are logged by the caller and never abort coordination.
type Sink interface {
	RecordSignalEvents(ctx context.Context, events []SignalEvent) error
}

// NopSink drops all events.
type NopSink struct{}

func (NopSink) RecordSignalEvents(context.Context, []SignalEvent) error { return nil }
