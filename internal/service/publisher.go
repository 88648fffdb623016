package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/storefront-api/internal/queue"
)

// defaultPublishTimeout caps dial and handshake when ctx has no sooner
// deadline.
const defaultPublishTimeout = 3 * time.Second

// AMQPPublisher publishes order events to RabbitMQ.  Each call opens its own
// connection; publishing happens once per paid order, so there is no pool.
type AMQPPublisher struct {
    URL     string
    Timeout time.Duration // dial and handshake bound, defaultPublishTimeout when zero
}

// dialTimeout is the smaller of the configured bound and what is left of ctx.
func (p *AMQPPublisher) dialTimeout(ctx context.Context) (time.Duration, error) {
    d := p.Timeout
    if d <= 0 {
        d = defaultPublishTimeout
    }
    if dl, ok := ctx.Deadline(); ok {
        if left := time.Until(dl); left < d {
            d = left
        }
    }
    if err := ctx.Err(); err != nil {
        return 0, err
    }
    if d <= 0 {
        return 0, context.DeadlineExceeded
    }
    return d, nil
}

// PublishOrderPaid sends ev to the durable order.paid queue as a persistent
// JSON message.
func (p *AMQPPublisher) PublishOrderPaid(ctx context.Context, ev queue.OrderPaidEvent) error {
    d, err := p.dialTimeout(ctx)
    if err != nil {
        return errors.Wrap(err, "rabbitmq dial")
    }
    // DefaultDial puts the deadline on the socket, so it also bounds the
    // AMQP handshake.
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(d),
    })
    if err != nil {
        return errors.Wrap(err, "rabbitmq dial")
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "rabbitmq channel")
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        queue.OrderPaidQueue, // name
        true,                 // durable
        false,                // autoDelete
        false,                // exclusive
        false,                // noWait
        nil,                  // args
    ); err != nil {
        return errors.Wrap(err, "rabbitmq queue declare")
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return errors.Wrap(err, "marshal event")
    }
    err = ch.PublishWithContext(ctx,
        "",                   // default exchange
        queue.OrderPaidQueue, // routing key = queue name
        false,                // mandatory
        false,                // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            Timestamp:    time.Now().UTC(),
            Body:         body,
        },
    )
    return errors.Wrap(err, "rabbitmq publish")
}
