package controllers

import (
	"context"

	"github.com/lifeline-ems/corridor/pkg/eventstore"
	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/route"
)

// Notifier delivers dispatch alerts (SMS in production). called
// fire-and-forget; failures are logged and never block a transition.
type Notifier interface {
	Notify(ctx context.Context, recipient, patientName string) error
}

// SignalEventSink persists notified-signal events, best effort and batched.
type SignalEventSink interface {
	RecordSignalEvents(ctx context.Context, events []eventstore.SignalEvent) error
}

// RouteProvider computes the driving route for an accepted request.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination geo.Coordinate) (route.Route, error)
}

// PositionSource produces the vehicle position stream for a route. the
// motion simulator implements it; a live GPS bridge can be dropped in as
// long as it honors the same channel contract (finite, closed on ctx
// cancel or path end).
type PositionSource interface {
	Simulate(ctx context.Context, path []geo.Coordinate) <-chan geo.Coordinate
}
