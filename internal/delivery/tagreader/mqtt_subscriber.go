// Package tagreader ingests scans published by fixed NFC reader gateways
// over MQTT. Handheld operator devices use the HTTP surface instead; this
// path serves checkpoint readers mounted at venue entrances.
package tagreader

import (
	"context"
	"encoding/json"
	"log/slog"

	"tripwatch/config"
	"tripwatch/internal/delivery"
	deliverycontext "tripwatch/internal/delivery/context"
	"tripwatch/internal/domain/entity"
	"tripwatch/internal/usecase"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const subscribeQoS = 1

// scanMessage is the JSON payload a reader gateway publishes per tag read.
type scanMessage struct {
	SessionID   uuid.UUID `json:"session_id"`
	TagUID      string    `json:"tag_uid"`
	Description string    `json:"description"`
	Position    *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		AccuracyM float64 `json:"accuracy_m"`
	} `json:"position"`
}

// subscriber bridges MQTT scan messages into the scan pipeline.
type subscriber struct {
	cfg    *config.Config
	logger *slog.Logger
	scanUC usecase.ScanUsecase
	client mqtt.Client
	stop   chan struct{}
}

// Params holds dependencies for the tag reader subscriber
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *slog.Logger
	ScanUC usecase.ScanUsecase
}

// NewSubscriber creates the MQTT tag reader subscriber
func NewSubscriber(params Params) delivery.Delivery {
	sub := &subscriber{
		cfg:    params.Cfg,
		logger: params.Logger,
		scanUC: params.ScanUC,
		stop:   make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			close(sub.stop)
			if sub.client != nil && sub.client.IsConnected() {
				sub.client.Disconnect(250)
			}

			return nil
		},
	})

	return sub
}

// Serve connects to the broker and consumes scans until stopped. A disabled
// MQTT config turns this delivery into a no-op.
func (sub *subscriber) Serve(ctx context.Context) error {
	mqttCfg := sub.cfg.MQTT
	if mqttCfg == nil || !mqttCfg.Enabled {
		sub.logger.Info("MQTT tag reader disabled")

		return nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(mqttCfg.BrokerURL).
		SetClientID(mqttCfg.ClientID).
		SetUsername(mqttCfg.Username).
		SetPassword(mqttCfg.Password).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(client mqtt.Client) {
			token := client.Subscribe(mqttCfg.Topic, subscribeQoS, sub.handleMessage)
			token.Wait()
			if err := token.Error(); err != nil {
				sub.logger.Error("Failed to subscribe to tag reader topic",
					slog.Any("error", err), slog.String("topic", mqttCfg.Topic))

				return
			}
			sub.logger.Info("Subscribed to tag reader topic", slog.String("topic", mqttCfg.Topic))
		})

	sub.client = mqtt.NewClient(opts)
	token := sub.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return errors.Wrap(err, "failed to connect to MQTT broker")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sub.stop:
		return nil
	}
}

// handleMessage processes one published scan. Pipeline errors are logged,
// not returned: the gateway fires and forgets.
func (sub *subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var payload scanMessage
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		sub.logger.Warn("Dropping malformed tag reader message",
			slog.Any("error", err), slog.String("topic", msg.Topic()))

		return
	}
	if payload.SessionID == uuid.Nil || payload.TagUID == "" {
		sub.logger.Warn("Dropping incomplete tag reader message",
			slog.String("topic", msg.Topic()))

		return
	}

	input := &usecase.ScanInput{
		TagUID:      payload.TagUID,
		Description: payload.Description,
	}
	if payload.Position != nil {
		input.Position = &entity.Position{
			Latitude:  payload.Position.Latitude,
			Longitude: payload.Position.Longitude,
			AccuracyM: payload.Position.AccuracyM,
		}
	}

	msgLogger := sub.logger.With(slog.String("source", "mqtt"), slog.Any("session_id", payload.SessionID))
	ctx := deliverycontext.WithLogger(context.Background(), msgLogger)

	result, err := sub.scanUC.SubmitScan(ctx, payload.SessionID, input)
	if err != nil {
		msgLogger.Warn("Tag reader scan rejected",
			slog.Any("error", err), slog.String("tag_uid", payload.TagUID))

		return
	}

	msgLogger.Info("Tag reader scan processed",
		slog.Any("confirmation_id", result.ConfirmationID),
		slog.Bool("duplicate", result.Duplicate))
}
