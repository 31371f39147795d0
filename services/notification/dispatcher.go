package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"inkbook/models"
)

const (
	TypeReservationCreated   = "notify:reservation_created"
	TypeReservationConfirmed = "notify:reservation_confirmed"
	TypeReservationCancelled = "notify:reservation_cancelled"
)

// AsynqDispatcher enqueues notification tasks on Redis for the worker.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(redisOpts asynq.RedisClientOpt) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(redisOpts)}
}

func (d *AsynqDispatcher) ReservationCreated(ctx context.Context, res models.Reservation) error {
	return d.enqueue(ctx, TypeReservationCreated, res)
}

func (d *AsynqDispatcher) ReservationConfirmed(ctx context.Context, res models.Reservation) error {
	return d.enqueue(ctx, TypeReservationConfirmed, res)
}

func (d *AsynqDispatcher) ReservationCancelled(ctx context.Context, res models.Reservation) error {
	return d.enqueue(ctx, TypeReservationCancelled, res)
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, taskType string, res models.Reservation) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	if _, err := d.client.EnqueueContext(ctx, asynq.NewTask(taskType, payload)); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
