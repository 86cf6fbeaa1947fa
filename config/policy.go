package config

import (
	_ "embed"
	"fmt"
	"os"

	"pickem/domain/entities"

	"gopkg.in/yaml.v3"
)

//go:embed default_policy.yaml
var defaultPolicyYAML []byte

// Policy holds the tunable business rules of contests and credits
type Policy struct {
	MinParticipants int64                   `yaml:"min_participants"`
	DailyBonus      DailyBonusPolicy        `yaml:"daily_bonus"`
	BonusRules      BonusRulesPolicy        `yaml:"bonus_rules"`
	Scoring         entities.ScoringWeights `yaml:"scoring"`
	Products        map[string]int64        `yaml:"products"`
}

// DailyBonusPolicy configures the once-per-day grant
type DailyBonusPolicy struct {
	Amount     int64 `yaml:"amount"`
	MonthlyCap int64 `yaml:"monthly_cap"`
}

// BonusRulesPolicy lists the values offered to new contests' bonus rules
type BonusRulesPolicy struct {
	Random []int64 `yaml:"random"`
}

// DefaultPolicy returns the embedded policy
func DefaultPolicy() *Policy {
	policy, err := ParsePolicy(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded policy is invalid: %v", err))
	}
	return policy
}

// LoadPolicy reads a policy file, or the embedded default when path is empty
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return ParsePolicy(defaultPolicyYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes YAML on top of the defaults and validates the result
func ParsePolicy(data []byte) (*Policy, error) {
	policy := &Policy{
		MinParticipants: 2,
		DailyBonus:      DailyBonusPolicy{Amount: 1, MonthlyCap: 10},
		Scoring:         entities.DefaultScoringWeights(),
	}
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// Validate rejects policies the engine cannot run with
func (p *Policy) Validate() error {
	if p.MinParticipants < 1 {
		return fmt.Errorf("min_participants must be at least 1")
	}
	if p.DailyBonus.Amount <= 0 {
		return fmt.Errorf("daily_bonus.amount must be positive")
	}
	if p.DailyBonus.MonthlyCap < 0 {
		return fmt.Errorf("daily_bonus.monthly_cap cannot be negative")
	}
	if p.Scoring.GoalPoints < 0 || p.Scoring.AssistPoints < 0 {
		return fmt.Errorf("scoring weights cannot be negative")
	}
	for key, credits := range p.Products {
		if credits <= 0 {
			return fmt.Errorf("product %q must grant a positive amount", key)
		}
	}
	for _, v := range p.BonusRules.Random {
		if v < 0 {
			return fmt.Errorf("bonus candidates cannot be negative")
		}
	}
	return nil
}
