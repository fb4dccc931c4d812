package controllers

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lifeline-ems/corridor/pkg/geo"
)

type RequestState int

const (
	StatePending RequestState = iota
	StateAccepted
	StateRejected
)

func (s RequestState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

var (
	ErrNoPendingRequest = errors.New("no pending emergency request for that patient")
	ErrRequestResolved  = errors.New("emergency request already accepted or rejected")
)

// EmergencyCase is one emergency request's lifecycle from creation to
// acceptance or rejection. accepted and rejected are terminal; a new case
// must be opened for a new emergency.
type EmergencyCase struct {
	id          uuid.UUID
	patientName string
	origin      *geo.Coordinate
	createdAt   time.Time
	state       RequestState
}

func (c *EmergencyCase) GetID() uuid.UUID {
	return c.id
}

func (c *EmergencyCase) GetPatientName() string {
	return c.patientName
}

func (c *EmergencyCase) GetOrigin() *geo.Coordinate {
	return c.origin
}

func (c *EmergencyCase) GetState() RequestState {
	return c.state
}

func (c *EmergencyCase) GetCreatedAt() time.Time {
	return c.createdAt
}

// caseRegistry keys every case by an explicit id rather than one implicit
// global, even though the wire protocol only ever drives one case at a time.
// the registry is not synchronized; the hub serializes access.
type caseRegistry struct {
	cases    map[uuid.UUID]*EmergencyCase
	activeID uuid.UUID
}

func newCaseRegistry() *caseRegistry {
	return &caseRegistry{
		cases: make(map[uuid.UUID]*EmergencyCase),
	}
}

func (r *caseRegistry) Active() *EmergencyCase {
	if r.activeID == uuid.Nil {
		return nil
	}
	return r.cases[r.activeID]
}

// Open makes name's case the active one. if the active case already belongs
// to name and is not rejected, it is reused (duplicate reports from the
// requesting client must not re-trigger notifications). a pending case for a
// different patient is superseded: it transitions to rejected and is
// returned so the caller can log it.
func (r *caseRegistry) Open(name string, origin *geo.Coordinate) (c *EmergencyCase, opened bool, superseded *EmergencyCase) {
	if active := r.Active(); active != nil {
		if active.patientName == name && active.state != StateRejected {
			return active, false, nil
		}
		if active.state == StatePending {
			active.state = StateRejected
			superseded = active
		}
	}

	c = &EmergencyCase{
		id:          uuid.New(),
		patientName: name,
		origin:      origin,
		createdAt:   time.Now().UTC(),
		state:       StatePending,
	}
	r.cases[c.id] = c
	r.activeID = c.id
	return c, true, superseded
}

func (r *caseRegistry) transition(name string, to RequestState) (*EmergencyCase, error) {
	active := r.Active()
	if active == nil || active.patientName != name {
		return nil, ErrNoPendingRequest
	}
	if active.state != StatePending {
		return nil, ErrRequestResolved
	}
	active.state = to
	return active, nil
}

func (r *caseRegistry) Accept(name string) (*EmergencyCase, error) {
	return r.transition(name, StateAccepted)
}

func (r *caseRegistry) Reject(name string) (*EmergencyCase, error) {
	return r.transition(name, StateRejected)
}
