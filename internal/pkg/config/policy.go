package config

import (
	"fmt"
	"os"

	"rental-engine/internal/domain/pricing"

	"gopkg.in/yaml.v3"
)

// policyFile mirrors the YAML document. Amounts are in whole kroner; omitted
// keys keep the built-in defaults.
type policyFile struct {
	Insurance struct {
		DailyRate          *float64 `yaml:"daily_rate"`
		MonthlyCap         *float64 `yaml:"monthly_cap"`
		OriginalDeductible *float64 `yaml:"original_deductible"`
	} `yaml:"insurance"`
	Referral struct {
		MaxCredit *float64 `yaml:"max_credit"`
	} `yaml:"referral"`
	PrepaidRent struct {
		DefaultMonths *int `yaml:"default_months"`
	} `yaml:"prepaid_rent"`
}

// LoadPolicy returns pricing.DefaultPolicy when path is empty.
func LoadPolicy(path string) (pricing.Policy, error) {
	policy := pricing.DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	return ParsePolicy(raw)
}

func ParsePolicy(raw []byte) (pricing.Policy, error) {
	policy := pricing.DefaultPolicy()

	var f policyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return pricing.Policy{}, fmt.Errorf("failed to parse policy file: %w", err)
	}

	amounts := []struct {
		value *float64
		dst   *pricing.Money
		key   string
	}{
		{f.Insurance.DailyRate, &policy.InsuranceDailyRate, "insurance.daily_rate"},
		{f.Insurance.MonthlyCap, &policy.InsuranceMonthlyCap, "insurance.monthly_cap"},
		{f.Insurance.OriginalDeductible, &policy.OriginalDeductible, "insurance.original_deductible"},
		{f.Referral.MaxCredit, &policy.MaxReferralCredit, "referral.max_credit"},
	}
	for _, a := range amounts {
		if a.value == nil {
			continue
		}
		if *a.value < 0 {
			return pricing.Policy{}, fmt.Errorf("policy %s must not be negative", a.key)
		}
		*a.dst = pricing.FromFloat(*a.value)
	}

	if m := f.PrepaidRent.DefaultMonths; m != nil {
		if *m < 1 {
			return pricing.Policy{}, fmt.Errorf("policy prepaid_rent.default_months must be at least 1")
		}
		policy.DefaultPrepaidMonths = *m
	}
	return policy, nil
}
