package analytics

import (
	"crm-analytics/internal/crm"
)

// Pipeline binds a tenant's stage list to the registry and classifier so every
// aggregator resolves stages the same way. It is immutable after construction.
type Pipeline struct {
	registry *StageRegistry
	rules    StageRules
	success  *crm.Stage
	visit    *crm.Stage
}

// NewPipeline prepares stage resolution for one snapshot.
func NewPipeline(stages []crm.Stage, rules StageRules) *Pipeline {
	registry := NewStageRegistry(stages)
	classifier := NewStageClassifier(rules)
	active := registry.ActiveStages()

	return &Pipeline{
		registry: registry,
		rules:    classifier.Rules(),
		success:  classifier.FindSpecial(active, Success),
		visit:    classifier.FindSpecial(active, Visit),
	}
}

// Registry exposes the underlying stage registry.
func (p *Pipeline) Registry() *StageRegistry {
	return p.registry
}

// Resolve maps a lead to its canonical stage.
func (p *Pipeline) Resolve(lead crm.Lead) Resolution {
	return p.registry.Resolve(lead)
}

// Special returns the success or visit stage, or nil when the tenant has none.
func (p *Pipeline) Special(kind SpecialKind) *crm.Stage {
	switch kind {
	case Success:
		return p.success
	case Visit:
		return p.visit
	default:
		return nil
	}
}

// InSpecial reports whether the lead sits in the special stage of the given kind.
// Leads that failed resolution still count when their raw legacy field equals the
// rule's legacy key, which keeps pre-migration data comparable.
func (p *Pipeline) InSpecial(lead crm.Lead, kind SpecialKind) bool {
	stage := p.Special(kind)
	if stage == nil {
		return false
	}

	res := p.registry.Resolve(lead)
	if res.Resolved() {
		return res.Stage == stage.Name
	}

	key := p.rules.For(kind).LegacyKey
	return key != "" && lead.LegacyStage == key
}

// CountSpecial counts leads in the special stage of the given kind.
func (p *Pipeline) CountSpecial(leads []crm.Lead, kind SpecialKind) int {
	n := 0
	for _, l := range leads {
		if p.InSpecial(l, kind) {
			n++
		}
	}
	return n
}

// ConversionRate is the share of leads in the success stage, 0-100 with one decimal.
func (p *Pipeline) ConversionRate(leads []crm.Lead) float64 {
	return Percent(p.CountSpecial(leads, Success), len(leads))
}
