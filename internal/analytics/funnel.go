package analytics

import (
	"crm-analytics/internal/crm"
)

// CountsByStage counts leads per active stage. Every active stage gets a bucket,
// even when empty; leads that do not land on an active stage increment nothing.
func (p *Pipeline) CountsByStage(leads []crm.Lead) StageTally {
	active := p.registry.ActiveStages()
	tally := make(StageTally, len(active))
	index := make(map[string]int, len(active))
	for i, s := range active {
		tally[i] = newStageCount(s)
		index[s.Name] = i
	}

	for _, l := range leads {
		res := p.registry.Resolve(l)
		if !res.Resolved() {
			continue
		}
		if i, ok := index[res.Stage]; ok {
			tally[i].Count++
		}
	}

	return tally
}

// UnplacedCount counts leads that no active bucket receives: unresolved leads and
// leads resolved through a legacy key onto a stage that is no longer active.
func (p *Pipeline) UnplacedCount(leads []crm.Lead) int {
	n := 0
	for _, l := range leads {
		res := p.registry.Resolve(l)
		if !res.Resolved() || !p.registry.IsActive(res.Stage) {
			n++
		}
	}
	return n
}
