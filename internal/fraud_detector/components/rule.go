package components

import (
	"fmt"

	"github.com/transaction-fraud-monitor/internal/config"
	"github.com/transaction-fraud-monitor/internal/domain/alert"
)

// RuleEvaluator maps an enriched transaction to a fraud classification.
// Implementations must be pure and deterministic: no I/O, no side effects,
// identical input always yields the identical boolean.
type RuleEvaluator interface {
	// Classify returns whether the enriched record is fraudulent.
	Classify(enriched *alert.EnrichedTransaction) bool

	// Name returns the configured strategy name.
	Name() string
}

// FixedThresholdRule flags a record when the account's risk score at join
// time meets the risk threshold and the amount exceeds a fixed threshold.
type FixedThresholdRule struct {
	riskThreshold   float64
	amountThreshold float64
}

func (r *FixedThresholdRule) Classify(enriched *alert.EnrichedTransaction) bool {
	return enriched.RiskScoreAtJoinTime >= r.riskThreshold && enriched.Amount > r.amountThreshold
}

func (r *FixedThresholdRule) Name() string { return config.RuleStrategyFixed }

// AccountLimitRule flags a record when the risk score at join time meets
// the risk threshold and the amount exceeds the joined account's own
// transaction limit. When the profile was absent there is no limit to
// compare against, so the fixed threshold is used as fallback to keep the
// rule total.
type AccountLimitRule struct {
	riskThreshold  float64
	fallbackAmount float64
}

func (r *AccountLimitRule) Classify(enriched *alert.EnrichedTransaction) bool {
	limit := r.fallbackAmount
	if enriched.ProfileFound {
		limit = enriched.TransactionLimit
	}
	return enriched.RiskScoreAtJoinTime >= r.riskThreshold && enriched.Amount > limit
}

func (r *AccountLimitRule) Name() string { return config.RuleStrategyAccountLimit }

// NewRuleEvaluator builds the rule strategy selected by configuration.
// An unknown strategy name is a startup configuration error.
func NewRuleEvaluator(cfg *config.RuleConfig) (RuleEvaluator, error) {
	switch cfg.Strategy {
	case config.RuleStrategyFixed:
		return &FixedThresholdRule{
			riskThreshold:   cfg.RiskThreshold,
			amountThreshold: cfg.AmountThreshold,
		}, nil
	case config.RuleStrategyAccountLimit:
		return &AccountLimitRule{
			riskThreshold:  cfg.RiskThreshold,
			fallbackAmount: cfg.AmountThreshold,
		}, nil
	default:
		return nil, fmt.Errorf("unknown rule strategy %q", cfg.Strategy)
	}
}
