// Package telemetry subscribes to the vehicle gateway's MQTT position feed and
// caches the last known fix per driver, so status changes recorded without an
// explicit location can still carry one.
package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// Topic is the subscription filter for per-driver position fixes.
// Gateways publish to eld/{driverID}/position.
const Topic = "eld/+/position"

// maxFixAge bounds how stale a cached fix may be and still be attached to a
// status change. Older fixes are treated as absent.
const maxFixAge = 5 * time.Minute

// positionMessage is the JSON payload published on the position topic.
type positionMessage struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Address    string    `json:"address,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type fix struct {
	location   domain.Location
	recordedAt time.Time
}

// Feed caches the last known position per driver. It implements the status
// service's LocationProvider.
type Feed struct {
	client paho.Client
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	fixes map[uuid.UUID]fix
}

// New connects to the broker and subscribes to the position topic.
func New(broker string, logger *slog.Logger) (*Feed, error) {
	f := &Feed{
		logger: logger,
		now:    time.Now,
		fixes:  make(map[uuid.UUID]fix),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("eld-backend").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("telemetry.New: connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("telemetry.New: connect to broker: %w", err)
	}
	f.client = client

	// QoS 0: a dropped fix is replaced by the next one within seconds.
	sub := client.Subscribe(Topic, 0, func(_ paho.Client, msg paho.Message) {
		f.handleMessage(msg.Topic(), msg.Payload())
	})
	if !sub.WaitTimeout(10 * time.Second) {
		client.Disconnect(250)
		return nil, fmt.Errorf("telemetry.New: subscribe timeout")
	}
	if err := sub.Error(); err != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("telemetry.New: subscribe: %w", err)
	}

	return f, nil
}

// LastKnown returns the driver's most recent position fix, if one exists and
// is fresh enough to attach to a status change.
func (f *Feed) LastKnown(driverID uuid.UUID) (domain.Location, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cached, ok := f.fixes[driverID]
	if !ok || f.now().Sub(cached.recordedAt) > maxFixAge {
		return domain.Location{}, false
	}
	return cached.location, true
}

// Close disconnects from the broker.
func (f *Feed) Close() {
	if f.client != nil {
		f.client.Disconnect(250)
	}
}

// handleMessage parses one position message and updates the driver's cached
// fix. Malformed messages are logged and dropped; the feed is advisory and
// must never fail a status change.
func (f *Feed) handleMessage(topic string, payload []byte) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 {
		f.logger.Warn("telemetry: unexpected topic", "topic", topic)
		return
	}
	driverID, err := uuid.Parse(parts[1])
	if err != nil {
		f.logger.Warn("telemetry: topic segment is not a driver id", "topic", topic)
		return
	}

	var msg positionMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		f.logger.Warn("telemetry: malformed position payload", "driver_id", driverID, "error", err)
		return
	}
	recordedAt := msg.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = f.now()
	}

	lat, lon := msg.Lat, msg.Lon
	f.mu.Lock()
	defer f.mu.Unlock()

	// Keep the newest fix; gateways may replay on reconnect.
	if current, ok := f.fixes[driverID]; ok && current.recordedAt.After(recordedAt) {
		return
	}
	f.fixes[driverID] = fix{
		location:   domain.Location{Address: msg.Address, Lat: &lat, Lon: &lon},
		recordedAt: recordedAt,
	}
}
