package components

import (
	"log/slog"

	"github.com/transaction-fraud-monitor/internal/domain/alert"
	"github.com/transaction-fraud-monitor/internal/domain/profile"
	"github.com/transaction-fraud-monitor/internal/domain/transaction"
)

// UnknownAccountRiskScore is applied when a transaction's account has no
// entry in the reference table. Treating unknown accounts as zero risk
// means they can never be flagged under the risk-threshold rule; the record
// still flows through classification instead of being dropped.
const UnknownAccountRiskScore = 0.0

// Enricher is the point where the transaction feed and the profile feed
// interact: it joins each transaction against the current reference table
// value for its accountId. The lookup is a single snapshot read at the
// moment Enrich is invoked; concurrent profile updates may land before or
// after it, and staleness is accepted rather than retried.
type Enricher struct {
	table  profile.Table
	logger *slog.Logger
}

// NewEnricher creates a join engine over the given reference table
func NewEnricher(table profile.Table, logger *slog.Logger) *Enricher {
	return &Enricher{
		table:  table,
		logger: logger,
	}
}

// Enrich joins one transaction with the current profile for its account.
// It never mutates the table and never fails: a missing profile yields the
// unknown-account defaults.
func (e *Enricher) Enrich(txn *transaction.Event) *alert.EnrichedTransaction {
	enriched := &alert.EnrichedTransaction{
		Event:               *txn,
		RiskScoreAtJoinTime: UnknownAccountRiskScore,
	}

	p, found := e.table.Get(txn.AccountID)
	if found {
		enriched.RiskScoreAtJoinTime = p.RiskScore
		enriched.TransactionLimit = p.TransactionLimit
		enriched.ProfileFound = true
	} else {
		e.logger.Debug("No profile for account, applying unknown-account risk",
			"account_id", txn.AccountID,
			"transaction_id", txn.TransactionID,
		)
	}

	return enriched
}
