package controllers

import (
	"time"

	"github.com/lifeline-ems/corridor/pkg/geo"
)

// wire message types. field names below are the wire contract shared with
// the dashboards; do not rename.
const (
	MessageTypeEmergencyRequest      = "emergencyRequest"
	MessageTypeVehicleLocationUpdate = "vehicleLocationUpdate"
	MessageTypeCoordinateUpdate      = "coordinateUpdate"
	MessageTypeTrafficLightUpdate    = "trafficLightUpdate"
)

type trafficLightPayload struct {
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Direction     string  `json:"direction"`
	FromDirection string  `json:"fromDirection"`
}

// inboundMessage is the superset of every message a client may send over the
// socket. legacy dashboards omit messageType on emergency requests and are
// recognized by a non-empty name. latitude/longitude and lat/lng are
// interchangeable aliases on the wire.
type inboundMessage struct {
	MessageType         string                `json:"messageType"`
	Name                string                `json:"name"`
	Latitude            *float64              `json:"latitude"`
	Lat                 *float64              `json:"lat"`
	Longitude           *float64              `json:"longitude"`
	Lng                 *float64              `json:"lng"`
	VehicleID           string                `json:"vehicleId"`
	Direction           string                `json:"direction"`
	FromDirection       string                `json:"fromDirection"`
	NearbyTrafficLights []trafficLightPayload `json:"nearbyTrafficLights"`
}

// Coordinate resolves the latitude/longitude aliases. the long-form fields
// win when both are present, matching the legacy server.
func (m *inboundMessage) Coordinate() (geo.Coordinate, bool) {
	lat := m.Latitude
	if lat == nil {
		lat = m.Lat
	}
	lng := m.Longitude
	if lng == nil {
		lng = m.Lng
	}
	if lat == nil || lng == nil {
		return geo.Coordinate{}, false
	}
	return geo.NewCoordinate(*lat, *lng), true
}

type coordinateUpdateMessage struct {
	MessageType   string  `json:"messageType"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	VehicleID     string  `json:"vehicleId"`
	Direction     string  `json:"direction"`
	FromDirection string  `json:"fromDirection"`
	Timestamp     string  `json:"timestamp"`
}

type trafficLightUpdateMessage struct {
	MessageType   string                `json:"messageType"`
	TrafficLights []trafficLightPayload `json:"trafficLights"`
	Timestamp     string                `json:"timestamp"`
}

func wireTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
