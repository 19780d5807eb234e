package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"dropit/internal/metrics"
	"dropit/internal/model"
)

type ArchiveWriter interface {
	Create(ctx context.Context, message *model.ArchivedMessage) error
}

// ArchiveWorker drains the archive queue into the database.
type ArchiveWorker struct {
	conn      *amqp.Connection
	repo      ArchiveWriter
	queueName string
	log       *zap.Logger
	// retryDelay spaces out redeliveries while the database is failing.
	retryDelay time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewArchiveWorker(conn *amqp.Connection, repo ArchiveWriter, queueName string, log *zap.Logger) *ArchiveWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArchiveWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		log:       log,

		retryDelay: time.Second,
	}
}

func (w *ArchiveWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.process(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *ArchiveWorker) process(ctx context.Context, d amqp.Delivery) {
	var msg model.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.ID == "" {
		w.log.Warn("archive worker decode failed", zap.String("message_id", d.MessageId), zap.Error(err))
		metrics.ArchivedMessages.WithLabelValues("invalid").Inc()
		_ = d.Nack(false, false)
		return
	}

	if err := w.repo.Create(ctx, model.NewArchivedMessage(msg)); err != nil {
		w.log.Error("archive worker persist failed", zap.String("message_id", msg.ID), zap.Error(err))
		metrics.ArchivedMessages.WithLabelValues("failed").Inc()
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
		_ = d.Nack(false, true)
		return
	}

	metrics.ArchivedMessages.WithLabelValues("ok").Inc()
	_ = d.Ack(false)
}

func (w *ArchiveWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
