//go:build unit

package config_test

import (
	"testing"

	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPolicy(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		p, err := config.LoadPolicy("")
		require.NoError(t, err)
		assert.Equal(t, pricing.DefaultPolicy(), p)
	})

	t.Run("partial document overrides only given keys", func(t *testing.T) {
		p, err := config.ParsePolicy([]byte("insurance:\n  daily_rate: 59.5\nreferral:\n  max_credit: 250\n"))
		require.NoError(t, err)
		assert.Equal(t, pricing.Minor(5950), p.InsuranceDailyRate)
		assert.Equal(t, pricing.Major(250), p.MaxReferralCredit)
		assert.Equal(t, pricing.Major(400), p.InsuranceMonthlyCap)
		assert.Equal(t, 1, p.DefaultPrepaidMonths)
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		_, err := config.ParsePolicy([]byte("insurance:\n  monthly_cap: -1\n"))
		require.Error(t, err)
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		_, err := config.ParsePolicy([]byte("insurance: ["))
		require.Error(t, err)
	})
}
