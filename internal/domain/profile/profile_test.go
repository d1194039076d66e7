package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile AccountProfile
		wantErr error
	}{
		{
			name:    "valid profile",
			profile: AccountProfile{AccountID: "ACC100000", RiskScore: 0.73, TransactionLimit: 8200},
		},
		{
			name:    "risk score boundaries are inclusive",
			profile: AccountProfile{AccountID: "ACC100000", RiskScore: 1.0, TransactionLimit: 0},
		},
		{
			name:    "zero risk score",
			profile: AccountProfile{AccountID: "ACC100000", RiskScore: 0.0, TransactionLimit: 5000},
		},
		{
			name:    "empty account id",
			profile: AccountProfile{RiskScore: 0.5, TransactionLimit: 5000},
			wantErr: ErrEmptyAccountID,
		},
		{
			name:    "risk score above one",
			profile: AccountProfile{AccountID: "ACC100000", RiskScore: 1.01, TransactionLimit: 5000},
			wantErr: ErrRiskScoreOutOfRange,
		},
		{
			name:    "negative risk score",
			profile: AccountProfile{AccountID: "ACC100000", RiskScore: -0.1, TransactionLimit: 5000},
			wantErr: ErrRiskScoreOutOfRange,
		},
		{
			name:    "negative limit",
			profile: AccountProfile{AccountID: "ACC100000", RiskScore: 0.5, TransactionLimit: -1},
			wantErr: ErrNegativeLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
