package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublisherClosed is returned once the broker connection or channel has gone away
var ErrPublisherClosed = errors.New("rabbitmq publisher closed")

// RabbitPublisher publishes persistent JSON messages to one durable queue via the default exchange.
type RabbitPublisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	Queue  string
	closed atomic.Bool
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Heartbeat: 10 * time.Second, Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p := &RabbitPublisher{conn: conn, ch: ch, Queue: queue}
	closing := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		<-closing
		p.closed.Store(true)
	}()
	return p, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	p.closed.Store(true)
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes body as JSON; msgType is carried in the AMQP type property
// so consumers can route without decoding.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, msgType string, body any) error {
	if p == nil || p.closed.Load() {
		return ErrPublisherClosed
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         msgType,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}
