package analytics

import (
	"crm-analytics/internal/crm"
)

// TallyTags counts tag occurrences overall and per resolved stage. A lead with N
// tags contributes N increments. Unresolved leads only feed TotalByTag.
func (p *Pipeline) TallyTags(leads []crm.Lead, catalog map[string]crm.Tag) TagTally {
	tally := TagTally{
		TotalByTag:    make(map[string]int),
		ByStageAndTag: make(map[string]map[string]int),
	}

	for _, l := range leads {
		tags := l.Tags(catalog)
		if len(tags) == 0 {
			continue
		}

		res := p.registry.Resolve(l)
		for _, tag := range tags {
			tally.TotalByTag[tag.Name]++
			if !res.Resolved() {
				continue
			}
			cell, ok := tally.ByStageAndTag[res.Stage]
			if !ok {
				cell = make(map[string]int)
				tally.ByStageAndTag[res.Stage] = cell
			}
			cell[tag.Name]++
		}
	}

	return tally
}

// StageRows projects the cross-tab onto the active stages in funnel order.
// Stages without tagged leads get an empty row.
func (p *Pipeline) StageRows(tally TagTally) []StageTagRow {
	active := p.registry.ActiveStages()
	rows := make([]StageTagRow, 0, len(active))
	for _, s := range active {
		tags := make(map[string]int, len(tally.ByStageAndTag[s.Name]))
		for name, n := range tally.ByStageAndTag[s.Name] {
			tags[name] = n
		}
		rows = append(rows, StageTagRow{Stage: s.Name, Tags: tags})
	}
	return rows
}
