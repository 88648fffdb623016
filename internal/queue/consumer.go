// Package queue contains the background consumer that listens to the
// order.paid queue and appends one line per event to <dir>/orders.log.
package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"
)

// Consumer drains the order.paid queue.
type Consumer struct {
    URL    string // broker URL
    LogDir string // directory holding orders.log
}

// Run connects to RabbitMQ, declares the order.paid queue and consumes it
// until ctx is cancelled.  Broker failures trigger a reconnect with
// exponential backoff capped at 30s.  A message that cannot be handled is
// rejected without requeue so the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("order consumer: dial failed")
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("order consumer: loop ended, reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "channel open")
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("order consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(OrderPaidQueue, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "queue declare")
    }
    msgs, err := ch.ConsumeWithContext(ctx, OrderPaidQueue, "", false, false, false, false, nil)
    if err != nil {
        return errors.Wrap(err, "queue consume")
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                log.Error().Err(err).Msg("order consumer: handle message failed")
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handleMessage(body []byte) error {
    var ev OrderPaidEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return errors.Wrap(err, "unmarshal")
    }
    if ev.OrderID == "" {
        return errors.New("event without order_id")
    }
    if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
        return errors.Wrap(err, "mkdir log dir")
    }
    f, err := os.OpenFile(filepath.Join(c.LogDir, "orders.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return errors.Wrap(err, "open log file")
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return errors.Wrap(err, "write log")
    }
    return nil
}

func formatLine(ev OrderPaidEvent) string {
    return fmt.Sprintf("[%s] Order paid | order_id=%s | user_id=%s | amount=%d\n",
        ev.PaidAt, ev.OrderID, ev.UserID, ev.Amount)
}

// sleep waits for d or until ctx is done, reporting whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
