// File: database/repository/schedule/schedule_mongo.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkbook/models"
)

func (r *mongoScheduleRepo) GetTemplate(ctx context.Context, bookID string) (*models.WeeklyTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var template models.WeeklyTemplate
	err := r.templates.FindOne(ctx, bson.M{"book_id": bookID}).Decode(&template)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly template for book %s: %w", bookID, err)
	}
	return &template, nil
}

func (r *mongoScheduleRepo) UpsertTemplate(ctx context.Context, template *models.WeeklyTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	template.UpdatedAt = time.Now()
	_, err := r.templates.ReplaceOne(
		ctx,
		bson.M{"book_id": template.BookID},
		template,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weekly template for book %s: %w", template.BookID, err)
	}
	return nil
}

func (r *mongoScheduleRepo) GetException(ctx context.Context, bookID, date string) (*models.Exception, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var exc models.Exception
	err := r.exceptions.FindOne(ctx, bson.M{"book_id": bookID, "date": date}).Decode(&exc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exception for book %s on %s: %w", bookID, date, err)
	}
	return &exc, nil
}

func (r *mongoScheduleRepo) ListExceptionsInRange(ctx context.Context, bookID, from, to string) ([]models.Exception, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"book_id": bookID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.exceptions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list exceptions: %w", err)
	}
	defer cursor.Close(ctx)

	var excs []models.Exception
	if err := cursor.All(ctx, &excs); err != nil {
		return nil, fmt.Errorf("error decoding exceptions: %w", err)
	}
	return excs, nil
}

func (r *mongoScheduleRepo) UpsertException(ctx context.Context, exc *models.Exception) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if exc.ID == "" {
		exc.ID = uuid.New().String()
	}
	exc.CreatedAt = time.Now()

	// The unique (book_id, date) index keeps this to one override per date.
	_, err := r.exceptions.ReplaceOne(
		ctx,
		bson.M{"book_id": exc.BookID, "date": exc.Date},
		exc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exception for book %s on %s: %w", exc.BookID, exc.Date, err)
	}
	return nil
}

func (r *mongoScheduleRepo) DeleteException(ctx context.Context, bookID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.exceptions.DeleteOne(ctx, bson.M{"book_id": bookID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
