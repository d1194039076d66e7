package profile

import "errors"

// Common validation errors
var (
	ErrEmptyAccountID      = errors.New("accountId cannot be empty")
	ErrRiskScoreOutOfRange = errors.New("riskScore must be between 0.0 and 1.0")
	ErrNegativeLimit       = errors.New("transactionLimit cannot be negative")
)

// AccountProfile is the per-account risk metadata carried on the profile
// feed. Each new message for the same accountId replaces the prior value.
type AccountProfile struct {
	AccountID        string  `json:"accountId"`
	RiskScore        float64 `json:"riskScore"`
	TransactionLimit float64 `json:"transactionLimit"`
}

// Validate checks that the profile satisfies the boundary schema
func (p *AccountProfile) Validate() error {
	if p.AccountID == "" {
		return ErrEmptyAccountID
	}
	if p.RiskScore < 0.0 || p.RiskScore > 1.0 {
		return ErrRiskScoreOutOfRange
	}
	if p.TransactionLimit < 0 {
		return ErrNegativeLimit
	}
	return nil
}
