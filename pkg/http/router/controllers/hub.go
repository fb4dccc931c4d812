package controllers

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/concurrent"
	"github.com/lifeline-ems/corridor/pkg/eventstore"
	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/metrics"
	"github.com/lifeline-ems/corridor/pkg/signal"
	"github.com/lifeline-ems/corridor/pkg/tracking"
)

const collaboratorTimeout = 10 * time.Second

type Client struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (c *Client) readMessage() ([]byte, error) {
	c.io.Lock()
	defer c.io.Unlock()

	h, r, err := wsutil.NextReader(c.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(c.conn, ws.StateServerSide)(h, r)
	}
	return io.ReadAll(r)
}

// Receive reads the next inbound message and applies it to the hub.
func (c *Client) Receive() error {
	raw, err := c.readMessage()
	if err != nil {
		c.conn.Close()
		return err
	}

	if len(raw) == 0 {
		return nil
	}

	c.hub.dispatch(c, raw)
	return nil
}

func (c *Client) write(payload []byte) error {
	c.io.Lock()
	defer c.io.Unlock()

	return c.writeLocked(payload)
}

// tryWrite delivers payload only if the connection is immediately writable.
// a client stuck mid-write is skipped, not queued for.
func (c *Client) tryWrite(payload []byte) (bool, error) {
	if !c.io.TryLock() {
		return false, nil
	}
	defer c.io.Unlock()

	return true, c.writeLocked(payload)
}

func (c *Client) writeLocked(payload []byte) error {
	w := wsutil.NewWriter(c.conn, ws.StateServerSide, ws.OpText)
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return w.Flush()
}

type HubConfig struct {
	AlertRecipient string
	VehicleID      string
	// VehicleBase is where the ambulance starts; routes run from here to the
	// request origin.
	VehicleBase    geo.Coordinate
	CorridorMeters float64
}

// Hub owns the observer connection set, the request lifecycle and all
// per-case coordination state. every mutation of case state goes through
// caseMu, one inbound event at a time.
type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*Client
	ns  map[uint]*Client

	caseMu    sync.Mutex
	cases     *caseRegistry
	tracker   *tracking.ProximityTracker
	relevant  []signal.Point
	simCancel context.CancelFunc

	catalog   signal.Catalog
	matcher   *tracking.RouteMatcher
	routes    RouteProvider
	notifier  Notifier
	sink      SignalEventSink
	positions PositionSource

	pool  *concurrent.WorkerPool
	stats *metrics.Registry
	cfg   HubConfig
	log   *zap.Logger
}

func NewHub(pool *concurrent.WorkerPool, catalog signal.Catalog, matcher *tracking.RouteMatcher,
	tracker *tracking.ProximityTracker, routes RouteProvider, notifier Notifier,
	sink SignalEventSink, positions PositionSource, stats *metrics.Registry,
	cfg HubConfig, log *zap.Logger) *Hub {

	return &Hub{
		ns:        make(map[uint]*Client),
		us:        make([]*Client, 0),
		cases:     newCaseRegistry(),
		tracker:   tracker,
		catalog:   catalog,
		matcher:   matcher,
		routes:    routes,
		notifier:  notifier,
		sink:      sink,
		positions: positions,
		pool:      pool,
		stats:     stats,
		cfg:       cfg,
		log:       log,
	}
}

func (h *Hub) Register(conn net.Conn) *Client {
	client := &Client{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	client.id = h.seq
	h.ns[client.id] = client
	h.us = append(h.us, client)
	h.seq++
	h.mu.Unlock()

	h.stats.ObserverConnected()
	return client
}

func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ns[client.id]; !ok {
		return
	}
	delete(h.ns, client.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= client.id
	})

	newUs := make([]*Client, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs

	h.stats.ObserverDisconnected()
}

func (h *Hub) RemoveAll() {
	h.mu.RLock()
	clients := make([]*Client, len(h.us))
	copy(clients, h.us)
	h.mu.RUnlock()

	for _, client := range clients {
		h.Remove(client)
		client.conn.Close()
	}
}

func (h *Hub) Catalog() signal.Catalog {
	return h.catalog
}

// dispatch routes one inbound message. malformed messages are discarded and
// counted; the connection stays open.
func (h *Hub) dispatch(sender *Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.stats.ProtocolViolation()
		h.log.Warn("discarding malformed message", zap.Error(err))
		return
	}

	switch msg.MessageType {
	case MessageTypeEmergencyRequest:
		h.handleEmergencyRequest(sender, &msg, raw)
	case MessageTypeVehicleLocationUpdate:
		h.handleVehicleLocationUpdate(&msg)
	case "":
		// legacy dashboards send emergency requests without a messageType
		if msg.Name != "" {
			h.handleEmergencyRequest(sender, &msg, raw)
			return
		}
		h.stats.ProtocolViolation()
		h.log.Warn("unknown message format received")
	default:
		h.stats.ProtocolViolation()
		h.log.Warn("unknown message type received", zap.String("messageType", msg.MessageType))
	}
}

func (h *Hub) handleEmergencyRequest(sender *Client, msg *inboundMessage, raw []byte) {
	if strings.TrimSpace(msg.Name) == "" {
		h.stats.ProtocolViolation()
		h.log.Warn("emergency request missing patient name, discarded")
		return
	}

	var origin *geo.Coordinate
	if coord, ok := msg.Coordinate(); ok {
		origin = &coord
	}

	h.caseMu.Lock()
	c, opened, superseded := h.cases.Open(msg.Name, origin)
	h.caseMu.Unlock()

	if superseded != nil {
		h.log.Warn("pending emergency request superseded",
			zap.String("case_id", superseded.GetID().String()),
			zap.String("patient", superseded.GetPatientName()))
	}

	if opened {
		h.log.Info("emergency request received",
			zap.String("case_id", c.GetID().String()),
			zap.String("patient", c.GetPatientName()))

		h.pool.Schedule(func() {
			ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
			defer cancel()
			if err := h.notifier.Notify(ctx, h.cfg.AlertRecipient, msg.Name); err != nil {
				h.log.Error("dispatch alert failed", zap.Error(err))
			}
		})
	}

	if len(msg.NearbyTrafficLights) > 0 {
		h.recordSignalPayloads(msg.NearbyTrafficLights, msg.FromDirection)
	}

	// echo every original field back out, plus the server timestamp
	out := make(map[string]interface{})
	if err := json.Unmarshal(raw, &out); err != nil {
		h.log.Error("re-decoding emergency request", zap.Error(err))
		return
	}
	out["messageType"] = MessageTypeEmergencyRequest
	if origin != nil {
		out["latitude"] = origin.Lat
		out["longitude"] = origin.Lng
	}
	out["timestamp"] = wireTimestamp()

	h.broadcast(MessageTypeEmergencyRequest, out, sender)
}

func (h *Hub) handleVehicleLocationUpdate(msg *inboundMessage) {
	pos, ok := msg.Coordinate()
	if !ok {
		h.stats.ProtocolViolation()
		h.log.Warn("vehicle location update without coordinates, discarded")
		return
	}

	h.broadcastCoordinate(pos, msg.VehicleID, msg.Direction, msg.FromDirection)
	h.checkProximity(pos)
}

// onSimulatedPosition handles one tick of the simulated position stream.
func (h *Hub) onSimulatedPosition(prev, pos geo.Coordinate) {
	deg := geo.BearingTo(prev, pos)
	direction := geo.OctantOf(deg)
	fromDirection := geo.OctantOf(math.Mod(deg+180, 360))

	h.broadcastCoordinate(pos, h.cfg.VehicleID, direction, fromDirection)
	h.checkProximity(pos)
}

func (h *Hub) broadcastCoordinate(pos geo.Coordinate, vehicleID, direction, fromDirection string) {
	h.broadcast(MessageTypeCoordinateUpdate, coordinateUpdateMessage{
		MessageType:   MessageTypeCoordinateUpdate,
		Latitude:      pos.Lat,
		Longitude:     pos.Lng,
		VehicleID:     vehicleID,
		Direction:     direction,
		FromDirection: fromDirection,
		Timestamp:     wireTimestamp(),
	}, nil)
}

// checkProximity reports signals the vehicle newly entered range of, with
// both bearings: vehicle->signal ("direction") and signal->vehicle
// ("fromDirection").
func (h *Hub) checkProximity(pos geo.Coordinate) {
	h.caseMu.Lock()
	var entered []signal.Point
	if active := h.cases.Active(); active != nil && active.GetState() == StateAccepted && len(h.relevant) > 0 {
		entered = h.tracker.CheckProximity(pos, h.relevant)
	}
	h.caseMu.Unlock()

	if len(entered) == 0 {
		return
	}

	now := time.Now().UTC()
	lights := make([]trafficLightPayload, 0, len(entered))
	events := make([]eventstore.SignalEvent, 0, len(entered))
	for _, sp := range entered {
		to := geo.NewBearing(pos, sp.GetCoordinate())
		from := geo.NewBearing(sp.GetCoordinate(), pos)
		lights = append(lights, trafficLightPayload{
			Lat:           sp.GetLat(),
			Lng:           sp.GetLng(),
			Direction:     to.Octant,
			FromDirection: from.Octant,
		})
		events = append(events, eventstore.NewSignalEvent(sp, to.Octant, from.Octant, now))
	}

	h.stats.SignalsNotified(len(entered))
	h.broadcast(MessageTypeTrafficLightUpdate, trafficLightUpdateMessage{
		MessageType:   MessageTypeTrafficLightUpdate,
		TrafficLights: lights,
		Timestamp:     wireTimestamp(),
	}, nil)

	h.recordEvents(events)
}

func (h *Hub) recordSignalPayloads(lights []trafficLightPayload, fallbackFrom string) {
	now := time.Now().UTC()
	events := make([]eventstore.SignalEvent, 0, len(lights))
	for _, tl := range lights {
		from := tl.FromDirection
		if from == "" {
			from = fallbackFrom
		}
		events = append(events, eventstore.NewSignalEvent(
			signal.New(tl.Lat, tl.Lng), tl.Direction, from, now))
	}
	h.recordEvents(events)
}

func (h *Hub) recordEvents(events []eventstore.SignalEvent) {
	h.pool.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()
		if err := h.sink.RecordSignalEvents(ctx, events); err != nil {
			h.log.Error("recording signal events", zap.Error(err))
		}
	})
}

// Accept transitions the active case to accepted, notifies the requester,
// computes the relevant signal set for the route and starts consuming the
// position stream. route failures degrade tracking but never undo the
// transition. returns the route ETA when one was computed.
func (h *Hub) Accept(ctx context.Context, patientName string) (string, error) {
	h.caseMu.Lock()
	c, err := h.cases.Accept(patientName)
	if err != nil {
		h.caseMu.Unlock()
		return "", err
	}
	h.tracker.Reset()
	h.relevant = nil
	if h.simCancel != nil {
		h.simCancel()
		h.simCancel = nil
	}
	origin := c.GetOrigin()
	h.caseMu.Unlock()

	h.log.Info("emergency request accepted",
		zap.String("case_id", c.GetID().String()),
		zap.String("patient", c.GetPatientName()))

	h.pool.Schedule(func() {
		nctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()
		if err := h.notifier.Notify(nctx, h.cfg.AlertRecipient, patientName); err != nil {
			h.log.Error("acceptance alert failed", zap.Error(err))
		}
	})

	if origin == nil {
		h.log.Warn("accepted request has no coordinates, tracking disabled",
			zap.String("case_id", c.GetID().String()))
		return "", nil
	}

	rt, err := h.routes.Route(ctx, h.cfg.VehicleBase, *origin)
	if err != nil || len(rt.Path) == 0 {
		h.log.Error("route fetch failed, tracking disabled for this case", zap.Error(err))
		return "", nil
	}

	relevant := h.matcher.MatchRoute(rt.Path, h.catalog, h.cfg.CorridorMeters)
	h.log.Info("route corridor matched",
		zap.Int("path_points", len(rt.Path)),
		zap.Int("relevant_signals", len(relevant)),
		zap.String("eta", rt.ETA))

	simCtx, cancel := context.WithCancel(context.Background())
	h.caseMu.Lock()
	h.relevant = relevant
	h.simCancel = cancel
	h.caseMu.Unlock()

	h.broadcastRelevantSignals(rt.Path[0], relevant)

	go h.trackVehicle(simCtx, rt.Path)

	return rt.ETA, nil
}

// Reject discards the active case and stops any tracking loop tied to it.
func (h *Hub) Reject(patientName string) error {
	h.caseMu.Lock()
	c, err := h.cases.Reject(patientName)
	if err != nil {
		h.caseMu.Unlock()
		return err
	}
	h.relevant = nil
	if h.simCancel != nil {
		h.simCancel()
		h.simCancel = nil
	}
	h.caseMu.Unlock()

	h.log.Info("emergency request rejected",
		zap.String("case_id", c.GetID().String()),
		zap.String("patient", c.GetPatientName()))
	return nil
}

func (h *Hub) broadcastRelevantSignals(vehiclePos geo.Coordinate, relevant []signal.Point) {
	if len(relevant) == 0 {
		return
	}
	lights := make([]trafficLightPayload, 0, len(relevant))
	for _, sp := range relevant {
		to := geo.NewBearing(vehiclePos, sp.GetCoordinate())
		from := geo.NewBearing(sp.GetCoordinate(), vehiclePos)
		lights = append(lights, trafficLightPayload{
			Lat:           sp.GetLat(),
			Lng:           sp.GetLng(),
			Direction:     to.Octant,
			FromDirection: from.Octant,
		})
	}
	h.broadcast(MessageTypeTrafficLightUpdate, trafficLightUpdateMessage{
		MessageType:   MessageTypeTrafficLightUpdate,
		TrafficLights: lights,
		Timestamp:     wireTimestamp(),
	}, nil)
}

func (h *Hub) trackVehicle(ctx context.Context, path []geo.Coordinate) {
	prev := path[0]
	for pos := range h.positions.Simulate(ctx, path) {
		h.onSimulatedPosition(prev, pos)
		prev = pos
	}
	h.log.Info("vehicle position stream ended")
}

// broadcast fans payload out to every connected observer except exclude.
// delivery is best effort: busy observers are skipped for this message and
// dead connections are evicted.
func (h *Hub) broadcast(messageType string, payload interface{}, exclude *Client) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshaling broadcast payload", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, len(h.us))
	copy(clients, h.us)
	h.mu.RUnlock()

	var dead []*Client
	for _, client := range clients {
		if client == exclude {
			continue
		}
		sent, err := client.tryWrite(data)
		if err != nil {
			// treat a failed send as an already-disconnected observer
			dead = append(dead, client)
			continue
		}
		if !sent {
			h.log.Debug("observer busy, skipping broadcast",
				zap.Uint("client_id", client.id),
				zap.String("messageType", messageType))
		}
	}

	h.stats.BroadcastSent(messageType)

	for _, client := range dead {
		h.Remove(client)
		client.conn.Close()
	}
}
