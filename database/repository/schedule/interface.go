// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"inkbook/database"
	"inkbook/models"
)

// Repository provides access to weekly templates and date exceptions.
// GetTemplate and GetException return (nil, nil) when nothing is stored.
type Repository interface {
	GetTemplate(ctx context.Context, bookID string) (*models.WeeklyTemplate, error)
	UpsertTemplate(ctx context.Context, template *models.WeeklyTemplate) error

	GetException(ctx context.Context, bookID, date string) (*models.Exception, error)
	ListExceptionsInRange(ctx context.Context, bookID, from, to string) ([]models.Exception, error)
	UpsertException(ctx context.Context, exc *models.Exception) error
	DeleteException(ctx context.Context, bookID, date string) error

	EnsureIndexes() error
}

type mongoScheduleRepo struct {
	templates  *mongo.Collection
	exceptions *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB schedule Repository.
func NewMongoScheduleRepo() Repository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoScheduleRepo{
		templates:  db.Collection("schedules"),
		exceptions: db.Collection("exceptions"),
	}
}
