package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"moviecatalog/proj/internal/domain/models"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const MovieCreatedQueue = "movie.created"

type Publisher struct {
	log   *slog.Logger
	conn  *amqp.Connection
	mu    sync.Mutex
	ch    *amqp.Channel
	queue string
}

/*
	New dials the broker at url and declares a durable queue.

Events published through the returned Publisher are routed to that queue
via the default exchange.
*/
func New(log *slog.Logger, url string, queue string) (*Publisher, error) {
	const op = "broker.New"
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: open channel: %w", op, err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: declare queue %s: %w", op, queue, err)
	}
	return &Publisher{
		log:   log,
		conn:  conn,
		ch:    ch,
		queue: queue,
	}, nil
}

func (p *Publisher) PublishMovieCreated(ctx context.Context, event models.MovieCreatedEvent) error {
	const op = "broker.Publisher.PublishMovieCreated"
	log := p.log.With("op", op, "movie_id", event.MovieID)
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Error("Error publishing event", "errMsg", err.Error())
		return err
	}
	log.Debug("event published", "queue", p.queue)
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
