// Package queue_publisher publishes domain events to RabbitMQ.  Errors
// are logged and returned so callers on the request path can choose to
// ignore a broker outage instead of failing the request.
package queue_publisher

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/queue"
)

// PublishBookingCreated publishes a BookingCreatedEvent to booking.created.
func PublishBookingCreated(ctx context.Context, event q.BookingCreatedEvent) error {
    return publish(ctx, q.BookingQueue, event)
}

// PublishOrderPlaced publishes an OrderPlacedEvent to order.placed.
func PublishOrderPlaced(ctx context.Context, event q.OrderPlacedEvent) error {
    return publish(ctx, q.OrderQueue, event)
}

// publish dials the broker per message.  Declares the queue durable so
// messages survive broker restarts and marks each message persistent.
func publish(ctx context.Context, queueName string, event any) error {
    conn, err := amqp.Dial(q.BrokerURL())
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
