package main

import (
	"context"
	"flag"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lifeline-ems/corridor/pkg/concurrent"
	"github.com/lifeline-ems/corridor/pkg/eventstore"
	"github.com/lifeline-ems/corridor/pkg/geo"
	"github.com/lifeline-ems/corridor/pkg/http"
	"github.com/lifeline-ems/corridor/pkg/http/router/controllers"
	"github.com/lifeline-ems/corridor/pkg/logger"
	"github.com/lifeline-ems/corridor/pkg/metrics"
	"github.com/lifeline-ems/corridor/pkg/notification"
	"github.com/lifeline-ems/corridor/pkg/route"
	"github.com/lifeline-ems/corridor/pkg/signal"
	"github.com/lifeline-ems/corridor/pkg/simulator"
	"github.com/lifeline-ems/corridor/pkg/spatialindex"
	"github.com/lifeline-ems/corridor/pkg/tracking"
	"github.com/lifeline-ems/corridor/pkg/util"
)

var (
	catalogPath = flag.String("signal_catalog", "./data/traffic_signals.json",
		"path to the traffic signal catalog (overpass .json or osm .pbf)")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Info("no config file found, using defaults and environment")
	}

	viper.SetDefault("PROXIMITY_RADIUS_METERS", tracking.DefaultNotificationRadiusMeters)
	viper.SetDefault("CORRIDOR_METERS", tracking.DefaultCorridorMeters)
	viper.SetDefault("SIM_STEP_INTERVAL", simulator.DefaultStepInterval)
	viper.SetDefault("SIM_STEP_FACTOR", simulator.DefaultStepFactor)
	viper.SetDefault("NOTIFY_RECIPIENT", "+916375195644")
	viper.SetDefault("VEHICLE_ID", "AMB-001")
	viper.SetDefault("VEHICLE_BASE_LAT", 13.104828921878372)
	viper.SetDefault("VEHICLE_BASE_LNG", 80.27684466155233)
	viper.SetDefault("ROUTING_API_URL", "http://localhost:6060")
	viper.SetDefault("ROUTING_API_TIMEOUT", "15s")

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	catalog, err := signal.Load(ctx, *catalogPath)
	if err != nil {
		panic(err)
	}
	logger.Info("signal catalog loaded", zap.Int("signals", len(catalog)))

	rtree := spatialindex.NewRtree()
	rtree.Build(catalog, logger)

	tracker := tracking.NewProximityTracker(viper.GetFloat64("PROXIMITY_RADIUS_METERS"))
	matcher := tracking.NewRouteMatcher(rtree)

	positions := simulator.New(viper.GetDuration("SIM_STEP_INTERVAL"),
		viper.GetFloat64("SIM_STEP_FACTOR"), logger)

	var notifier controllers.Notifier
	if gatewayURL := viper.GetString("SMS_GATEWAY_URL"); gatewayURL != "" {
		notifier = notification.NewSMSGateway(gatewayURL, viper.GetString("SMS_GATEWAY_FROM"),
			viper.GetString("SMS_GATEWAY_TOKEN"), logger)
	} else {
		notifier = notification.NewLogNotifier(logger)
	}

	var sink eventstore.Sink = eventstore.NopSink{}
	if influxURL := viper.GetString("INFLUX_URL"); influxURL != "" {
		sink = eventstore.NewInfluxSinkWithFallback(influxURL, viper.GetString("INFLUX_TOKEN"),
			viper.GetString("INFLUX_ORG"), viper.GetString("INFLUX_BUCKET"), logger)
	}

	routes := route.NewEngineClient(viper.GetString("ROUTING_API_URL"),
		viper.GetDuration("ROUTING_API_TIMEOUT"), logger)

	stats, err := metrics.NewRegistry(nil)
	if err != nil {
		panic(err)
	}

	pool := concurrent.NewWorkerPool(128, 1)
	pool.Spawn(15)

	hub := controllers.NewHub(pool, catalog, matcher, tracker, routes, notifier, sink,
		positions, stats, controllers.HubConfig{
			AlertRecipient: viper.GetString("NOTIFY_RECIPIENT"),
			VehicleID:      viper.GetString("VEHICLE_ID"),
			VehicleBase: geo.NewCoordinate(viper.GetFloat64("VEHICLE_BASE_LAT"),
				viper.GetFloat64("VEHICLE_BASE_LNG")),
			CorridorMeters: viper.GetFloat64("CORRIDOR_METERS"),
		}, logger)

	api := http.NewServer(logger)
	api.Use(ctx,
		logger, false, hub, pool)

	signal := http.GracefulShutdown()

	logger.Info("Corridor Coordination Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
