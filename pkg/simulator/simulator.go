package simulator

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/geo"
)

const (
	DefaultStepInterval = 30 * time.Millisecond
	// DefaultStepFactor controls how many interpolation steps a segment gets:
	// max(10, round(segment degree distance / step factor)).
	DefaultStepFactor = 0.0001

	minStepsPerSegment = 10
)

// MotionSimulator advances a simulated vehicle along a route path, emitting
// interpolated positions at a fixed cadence. it substitutes for a live GPS
// feed: consumers only see a coordinate channel, so a live source is a
// drop-in replacement.
type MotionSimulator struct {
	stepInterval time.Duration
	stepFactor   float64
	log          *zap.Logger
}

func New(stepInterval time.Duration, stepFactor float64, log *zap.Logger) *MotionSimulator {
	if stepInterval <= 0 {
		stepInterval = DefaultStepInterval
	}
	if stepFactor <= 0 {
		stepFactor = DefaultStepFactor
	}
	return &MotionSimulator{
		stepInterval: stepInterval,
		stepFactor:   stepFactor,
		log:          log,
	}
}

// Simulate starts a fresh run over path and returns the position stream. the
// channel is closed when the path is exhausted or ctx is cancelled; a new run
// must be started for a new path.
func (s *MotionSimulator) Simulate(ctx context.Context, path []geo.Coordinate) <-chan geo.Coordinate {
	out := make(chan geo.Coordinate)
	go s.run(ctx, path, out)
	return out
}

func (s *MotionSimulator) run(ctx context.Context, path []geo.Coordinate, out chan<- geo.Coordinate) {
	defer close(out)
	if len(path) == 0 {
		return
	}

	ticker := time.NewTicker(s.stepInterval)
	defer ticker.Stop()

	for i := 0; i < len(path)-1; i++ {
		start, end := path[i], path[i+1]
		steps := s.segmentSteps(start, end)
		for step := 0; step < steps; step++ {
			pos := geo.NewCoordinate(
				start.Lat+(end.Lat-start.Lat)*float64(step)/float64(steps),
				start.Lng+(end.Lng-start.Lng)*float64(step)/float64(steps),
			)
			if !s.emit(ctx, out, pos, ticker.C) {
				return
			}
		}
	}

	// land exactly on the final path point, never past it
	s.emit(ctx, out, path[len(path)-1], ticker.C)
}

func (s *MotionSimulator) segmentSteps(start, end geo.Coordinate) int {
	dist := geo.EuclideanDegreeDistance(start, end)
	return int(math.Max(minStepsPerSegment, math.Round(dist/s.stepFactor)))
}

func (s *MotionSimulator) emit(ctx context.Context, out chan<- geo.Coordinate, pos geo.Coordinate, tick <-chan time.Time) bool {
	select {
	case <-ctx.Done():
		return false
	case <-tick:
	}
	select {
	case <-ctx.Done():
		return false
	case out <- pos:
		return true
	}
}
