package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/transaction-fraud-monitor/internal/domain/alert"
)

const (
	// AlertCollectionName is the name of the alert collection in MongoDB
	AlertCollectionName = "fraud_alerts"
)

// AlertRepository implements the alert.Archive interface for MongoDB
type AlertRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAlertRepository creates a new MongoDB alert archive
func NewAlertRepository(logger *slog.Logger, db *mongo.Database) alert.Archive {
	return &AlertRepository{
		db:     db,
		logger: logger,
	}
}

// Save persists one confirmed fraud alert. Redelivered alerts produce
// separate documents; the archive keeps every delivery rather than
// deduplicating by transactionId.
func (r *AlertRepository) Save(ctx context.Context, enriched *alert.EnrichedTransaction) error {
	collection := r.db.Collection(AlertCollectionName)

	record := alert.Record{
		EnrichedTransaction: *enriched,
		ArchivedAt:          time.Now().UTC(),
	}

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to archive alert",
			"transaction_id", enriched.TransactionID,
			"account_id", enriched.AccountID,
			"error", err)
		return fmt.Errorf("failed to archive alert: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves the most recently archived alert for a transaction.
// Returns ErrAlertNotFound if no alert exists for the given transaction.
func (r *AlertRepository) GetByTransactionID(ctx context.Context, transactionID string) (*alert.Record, error) {
	collection := r.db.Collection(AlertCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	opts := options.FindOne().SetSort(bson.D{{Key: "archived_at", Value: -1}})

	var record alert.Record
	err := collection.FindOne(ctx, filter, opts).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, alert.ErrAlertNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get archived alert",
			"transaction_id", transactionID,
			"error", err)
		return nil, fmt.Errorf("failed to get archived alert: %w", err)
	}

	return &record, nil
}

// GetByAccountID retrieves archived alerts for an account, newest first
func (r *AlertRepository) GetByAccountID(ctx context.Context, accountID string, limit int64) ([]*alert.Record, error) {
	collection := r.db.Collection(AlertCollectionName)

	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.D{{Key: "archived_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query archived alerts",
			"account_id", accountID,
			"error", err)
		return nil, fmt.Errorf("failed to query archived alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*alert.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode archived alerts: %w", err)
	}

	return records, nil
}

// Count returns the total number of archived alerts
func (r *AlertRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(AlertCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count archived alerts: %w", err)
	}

	return count, nil
}
