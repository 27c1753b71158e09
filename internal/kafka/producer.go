package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/telemetry"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced          = "OrderPlaced"
	EventOrderStatusChanged   = "OrderStatusChanged"
	EventPaymentStatusChanged = "PaymentStatusChanged"
)

// Envelope wraps every published event with versioning and trace metadata.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	TraceID      string          `json:"trace_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// OrderEventPayload is the payload shared by all order lifecycle events.
type OrderEventPayload struct {
	OrderID       string `json:"order_id"`
	CropID        string `json:"crop_id"`
	BuyerID       string `json:"buyer_id"`
	FarmerID      string `json:"farmer_id"`
	Quantity      int    `json:"quantity"`
	TotalCents    int64  `json:"total_cents"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// EventBus publishes order events to a Kafka topic, keyed by order ID so all
// events for one order land on the same partition in order.
type EventBus struct {
	writer   *kafka.Writer
	producer string
}

// NewEventBus constructs a Kafka-backed event bus.
func NewEventBus(brokers []string, topic, producer string) *EventBus {
	return &EventBus{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		producer: producer,
	}
}

func (b *EventBus) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	return b.publish(ctx, EventOrderPlaced, order)
}

func (b *EventBus) PublishOrderStatusChanged(ctx context.Context, order domain.Order) error {
	return b.publish(ctx, EventOrderStatusChanged, order)
}

func (b *EventBus) PublishPaymentStatusChanged(ctx context.Context, order domain.Order) error {
	return b.publish(ctx, EventPaymentStatusChanged, order)
}

func (b *EventBus) publish(ctx context.Context, eventType string, order domain.Order) error {
	payload, err := json.Marshal(OrderEventPayload{
		OrderID:       order.ID,
		CropID:        order.CropID,
		BuyerID:       order.BuyerID,
		FarmerID:      order.FarmerID,
		Quantity:      order.Quantity,
		TotalCents:    order.TotalCents,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
	})
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	envelope, err := json.Marshal(Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     b.producer,
		TraceID:      telemetry.TraceID(ctx),
		Payload:      payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}

	err = b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: envelope,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (b *EventBus) Close() error {
	return b.writer.Close()
}
