package eventstore

import (
	"context"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

// InfluxSink writes signal events to an InfluxDB v2 bucket using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      *zap.Logger
}

func NewInfluxSink(url, token, org, bucket string, log *zap.Logger) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      log,
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a missing store never takes the
// coordinator down.
func NewInfluxSinkWithFallback(url, token, org, bucket string, log *zap.Logger) Sink {
	sink := NewInfluxSink(url, token, org, bucket, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			log.Warn("influx health check failed, signal events will not be persisted", zap.Error(err))
		} else {
			log.Warn("influx unhealthy, signal events will not be persisted",
				zap.String("status", string(health.Status)))
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

func (s *InfluxSink) RecordSignalEvents(ctx context.Context, events []SignalEvent) error {
	points := make([]*write.Point, 0, len(events))
	for _, ev := range events {
		p := write.NewPointWithMeasurement("signal_notification").
			AddTag("direction", ev.Direction).
			AddTag("from_direction", ev.FromDirection).
			AddField("signal_id", uint64(ev.Signal.GetID())).
			AddField("lat", ev.Signal.GetLat()).
			AddField("lng", ev.Signal.GetLng()).
			SetTime(ev.Timestamp)
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

func (s *InfluxSink) Close() {
	s.client.Close()
}
