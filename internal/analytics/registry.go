package analytics

import (
	"cmp"
	"slices"

	"crm-analytics/internal/crm"
)

// ResolvedBy records which stage field produced a resolution.
type ResolvedBy int

const (
	// Unresolved means neither stage field matched a known stage.
	Unresolved ResolvedBy = iota
	// ByName means CurrentStageName matched an active stage name.
	ByName
	// ByLegacyKey means LegacyStage matched a stage legacy key.
	ByLegacyKey
)

// Resolution is the canonical stage of a lead. Stage is empty when unresolved.
type Resolution struct {
	Stage string
	By    ResolvedBy
}

// Resolved reports whether the lead maps to a stage.
func (r Resolution) Resolved() bool {
	return r.By != Unresolved
}

// StageRegistry maps raw lead stage fields onto the tenant's canonical stages.
type StageRegistry struct {
	active       []crm.Stage
	activeByName map[string]crm.Stage
	byLegacyKey  map[string]crm.Stage
}

// NewStageRegistry indexes the tenant's stages. The input slice is not modified.
func NewStageRegistry(stages []crm.Stage) *StageRegistry {
	ordered := slices.Clone(stages)
	slices.SortStableFunc(ordered, func(a, b crm.Stage) int {
		return cmp.Compare(a.Order, b.Order)
	})

	r := &StageRegistry{
		activeByName: make(map[string]crm.Stage),
		byLegacyKey:  make(map[string]crm.Stage),
	}

	for _, s := range ordered {
		if s.LegacyKey != "" {
			// An active owner of a legacy key beats an inactive one; otherwise first by order.
			if prev, dup := r.byLegacyKey[s.LegacyKey]; !dup || (!prev.Active && s.Active) {
				r.byLegacyKey[s.LegacyKey] = s
			}
		}

		if !s.Active || s.Name == "" {
			continue
		}
		if _, dup := r.activeByName[s.Name]; dup {
			continue
		}
		r.activeByName[s.Name] = s
		r.active = append(r.active, s)
	}

	return r
}

// Resolve maps a lead to exactly one canonical stage.
// Current name first, then legacy key (active or not), then unresolved.
func (r *StageRegistry) Resolve(lead crm.Lead) Resolution {
	if name := lead.CurrentStageName; name != "" {
		if s, ok := r.activeByName[name]; ok {
			return Resolution{Stage: s.Name, By: ByName}
		}
	}

	if key := lead.LegacyStage; key != "" {
		if s, ok := r.byLegacyKey[key]; ok {
			return Resolution{Stage: s.Name, By: ByLegacyKey}
		}
	}

	return Resolution{}
}

// ActiveStages returns a copy of the active stages in funnel order.
func (r *StageRegistry) ActiveStages() []crm.Stage {
	return slices.Clone(r.active)
}

// IsActive reports whether name is an active stage.
func (r *StageRegistry) IsActive(name string) bool {
	_, ok := r.activeByName[name]
	return ok
}
