package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"cab-booking/backend/config"
)

var ErrChannelClosed = errors.New("rabbitmq 通道不可用")

// Publisher RabbitMQ 事件发布者
// 仅负责向 topic exchange 投递 JSON 消息，不做消费
type Publisher struct {
	exchange string
	conn     *amqp.Connection
	ch       *amqp.Channel
	logger   *zap.Logger
	mu       sync.RWMutex
	closed   bool
}

// NewPublisher 连接 RabbitMQ 并声明 durable topic exchange
func NewPublisher(cfg *config.MQConfig, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Dial: amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ 连接失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("打开通道失败: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("声明 exchange 失败: %w", err)
	}

	logger.Info("RabbitMQ 连接成功", zap.String("exchange", cfg.Exchange))

	return &Publisher{
		exchange: cfg.Exchange,
		conn:     conn,
		ch:       ch,
		logger:   logger,
	}, nil
}

// Publish 将 payload 序列化为 JSON 后投递到 routingKey
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	p.mu.RLock()
	ch := p.ch
	closed := p.closed
	p.mu.RUnlock()

	if ch == nil || closed {
		return ErrChannelClosed
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(
		publishCtx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// Close 关闭通道与连接，可重复调用
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}

	p.logger.Info("RabbitMQ 连接已关闭")
}
