package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"inkbook/models"
	"inkbook/utils"
)

// InitNotificationWorker runs the async delivery worker in background.
// Actual delivery channels (push, email, SMS) are external collaborators;
// the worker resolves the event and hands it to whatever sender is wired.
func InitNotificationWorker(redisOpts asynq.RedisClientOpt) {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationCreated, handleReservationEvent("created"))
	mux.HandleFunc(TypeReservationConfirmed, handleReservationEvent("confirmed"))
	mux.HandleFunc(TypeReservationCancelled, handleReservationEvent("cancelled"))

	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReservationEvent(event string) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var res models.Reservation
		if err := json.Unmarshal(task.Payload(), &res); err != nil {
			utils.GetLogger().Error("notification: invalid payload", zap.Error(err))
			return err
		}
		utils.GetLogger().Info("notification: reservation event",
			zap.String("event", event),
			zap.String("reservationID", res.ID),
			zap.String("bookID", res.BookID),
			zap.String("date", res.Date),
			zap.Int("start", res.Start),
			zap.Int("end", res.End),
		)
		return nil
	}
}
