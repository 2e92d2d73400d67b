package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	pkgkafka "github.com/swaritsharma001/welness-studio/pkg/kafka"
)

// Kafka topic constants for studio domain events.
const (
	TopicUserRegistered       = "studio.user.registered"
	TopicOrderCreated         = "studio.order.created"
	TopicOrderStatusChanged   = "studio.order.status_changed"
	TopicSessionBooked        = "studio.session.booked"
	TopicSessionStatusChanged = "studio.session.status_changed"
)

// Aggregate type constants.
const (
	AggregateTypeUser    = "user"
	AggregateTypeOrder   = "order"
	AggregateTypeSession = "booking_session"
)

// Source identifier for events originating from this service.
const Source = "studio"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// OrderCreatedData is the payload for an order.created event (full snapshot).
type OrderCreatedData struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	Status         string             `json:"status"`
	Items          []domain.OrderItem `json:"items"`
	SubtotalAmount int64              `json:"subtotal_amount"`
	TaxAmount      int64              `json:"tax_amount"`
	TotalAmount    int64              `json:"total_amount"`
	Currency       string             `json:"currency"`
	Address        domain.Address     `json:"address"`
}

// StatusChangedData is the payload for order and session status_changed
// events.
type StatusChangedData struct {
	ID        string `json:"id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// SessionBookedData is the payload for a session.booked event.
type SessionBookedData struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	InstructorID string `json:"instructor_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	AmountTotal  int64  `json:"amount_total"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// Producer publishes studio domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}

	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, data)
}

// PublishOrderCreated publishes an order.created event with the full order
// snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		ID:             order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		Items:          order.Items,
		SubtotalAmount: order.SubtotalAmount,
		TaxAmount:      order.TaxAmount,
		TotalAmount:    order.TotalAmount,
		Currency:       order.Currency,
		Address:        order.Address,
	}

	return p.publish(ctx, TopicOrderCreated, order.ID, AggregateTypeOrder, data)
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string) error {
	data := StatusChangedData{
		ID:        orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	return p.publish(ctx, TopicOrderStatusChanged, orderID, AggregateTypeOrder, data)
}

// PublishSessionBooked publishes a session.booked event.
func (p *Producer) PublishSessionBooked(ctx context.Context, session *domain.BookingSession) error {
	data := SessionBookedData{
		ID:           session.ID,
		UserID:       session.UserID,
		InstructorID: session.InstructorID,
		Date:         session.Date,
		Time:         session.Time,
		AmountTotal:  session.AmountTotal,
		Currency:     session.Currency,
		Status:       session.Status,
	}

	return p.publish(ctx, TopicSessionBooked, session.ID, AggregateTypeSession, data)
}

// PublishSessionStatusChanged publishes a session.status_changed event.
func (p *Producer) PublishSessionStatusChanged(ctx context.Context, sessionID, oldStatus, newStatus string) error {
	data := StatusChangedData{
		ID:        sessionID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	return p.publish(ctx, TopicSessionStatusChanged, sessionID, AggregateTypeSession, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
