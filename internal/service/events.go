package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// 预约事件 routing key
const (
	EventBookingCreated       = "booking.created"
	EventBookingUpdated       = "booking.updated"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingAssigned      = "booking.assigned"
	EventBookingDeleted       = "booking.deleted"
)

// EventPublisher 事件发布接口，pkg/mq.Publisher 实现之
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// NoopPublisher 未启用消息队列时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// BookingEvent 预约生命周期事件
type BookingEvent struct {
	BookingID      string    `json:"bookingId"`
	UserID         string    `json:"userId"`
	ActorID        string    `json:"actorId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	Fare           int       `json:"fare"`
	DriverID       *string   `json:"driverId,omitempty"`
	VehicleID      *string   `json:"vehicleId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// publishEvent 发布失败只记录日志，不影响主流程
func publishEvent(ctx context.Context, pub EventPublisher, logger *zap.Logger, routingKey string, evt BookingEvent) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if err := pub.Publish(ctx, routingKey, evt); err != nil {
		logger.Warn("发布预约事件失败",
			zap.String("routing_key", routingKey),
			zap.String("booking_id", evt.BookingID),
			zap.Error(err),
		)
	}
}
