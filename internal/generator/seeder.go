package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/transaction-fraud-monitor/internal/domain/profile"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/producers"
)

// SeedProfiles publishes initial risk metadata for a contiguous block of
// accounts starting at ACC100000. Risk scores land in [0.5, 1.0] and
// transaction limits in [5000, 10000], keyed by accountId so the profile
// feed compacts them per account.
func SeedProfiles(ctx context.Context, logger *slog.Logger, producer producers.MessagePublisher, count int) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < count; i++ {
		p := profile.AccountProfile{
			AccountID:        fmt.Sprintf("ACC%d", accountNumberBase+i),
			RiskScore:        0.5 + rng.Float64()*0.5,
			TransactionLimit: 5000 + rng.Float64()*5000,
		}

		if err := producer.Publish(ctx, p.AccountID, p); err != nil {
			return fmt.Errorf("failed to seed profile for %s: %w", p.AccountID, err)
		}
	}

	logger.Info("Seeded account profiles", "count", count)
	return nil
}
