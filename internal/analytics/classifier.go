package analytics

import (
	"strings"

	"crm-analytics/internal/crm"
)

// SpecialKind identifies a semantically special pipeline stage.
type SpecialKind string

const (
	// Success is the closed-sale stage counted as a conversion.
	Success SpecialKind = "success"
	// Visit is the property-visit stage.
	Visit SpecialKind = "visit"
)

// StageRule matches a stage by case-insensitive name substring or exact legacy key.
type StageRule struct {
	Keywords  []string `yaml:"keywords" json:"keywords"`
	LegacyKey string   `yaml:"legacyKey" json:"legacyKey"`
}

// StageRules is the keyword table used to locate special stages.
type StageRules struct {
	Success StageRule `yaml:"success" json:"success"`
	Visit   StageRule `yaml:"visit" json:"visit"`
}

// DefaultStageRules is the Portuguese convention used by brokerages.
func DefaultStageRules() StageRules {
	return StageRules{
		Success: StageRule{Keywords: []string{"venda", "fechada"}, LegacyKey: "vendas-fechadas"},
		Visit:   StageRule{Keywords: []string{"visita"}, LegacyKey: "visita"},
	}
}

// WithDefaults fills empty rules from DefaultStageRules.
func (r StageRules) WithDefaults() StageRules {
	def := DefaultStageRules()
	if len(r.Success.Keywords) == 0 && r.Success.LegacyKey == "" {
		r.Success = def.Success
	}
	if len(r.Visit.Keywords) == 0 && r.Visit.LegacyKey == "" {
		r.Visit = def.Visit
	}
	return r
}

// For returns the rule for a kind. Unknown kinds get an empty rule, which matches nothing.
func (r StageRules) For(kind SpecialKind) StageRule {
	switch kind {
	case Success:
		return r.Success
	case Visit:
		return r.Visit
	default:
		return StageRule{}
	}
}

// Matches reports whether the stage satisfies the rule.
func (r StageRule) Matches(s crm.Stage) bool {
	if r.LegacyKey != "" && s.LegacyKey == r.LegacyKey {
		return true
	}
	name := strings.ToLower(s.Name)
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// StageClassifier finds special stages using a StageRules table.
type StageClassifier struct {
	rules StageRules
}

// NewStageClassifier creates a classifier for the given rules.
func NewStageClassifier(rules StageRules) StageClassifier {
	return StageClassifier{rules: rules.WithDefaults()}
}

// FindSpecial returns the first stage in the given order matching kind, or nil.
// Callers pass stages already in funnel order.
func (c StageClassifier) FindSpecial(stages []crm.Stage, kind SpecialKind) *crm.Stage {
	rule := c.rules.For(kind)
	for i := range stages {
		if rule.Matches(stages[i]) {
			s := stages[i]
			return &s
		}
	}
	return nil
}

// Rules returns the effective rule table.
func (c StageClassifier) Rules() StageRules {
	return c.rules
}
