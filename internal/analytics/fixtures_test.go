package analytics

import (
	"fmt"
	"time"

	"crm-analytics/internal/crm"
)

var baseTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func tenantStages() []crm.Stage {
	return []crm.Stage{
		{ID: "s1", Name: "Novo Lead", Order: 1, Active: true, LegacyKey: "novo"},
		{ID: "s2", Name: "Visita Agendada", Order: 2, Active: true, LegacyKey: "visita"},
		{ID: "s3", Name: "Venda Fechada", Order: 3, Active: true},
		{ID: "s4", Name: "Perdido", Order: 4, Active: true, LegacyKey: "perdido"},
		{ID: "s9", Name: "Venda Fechada", Order: 9, Active: false, LegacyKey: "vendas-fechadas"},
	}
}

func at(offset time.Duration) *time.Time {
	t := baseTime.Add(offset)
	return &t
}

func lead(id, current, legacy, owner string) crm.Lead {
	return crm.Lead{ID: id, CreatedAt: baseTime, CurrentStageName: current, LegacyStage: legacy, OwnerUserID: owner}
}

func tagged(l crm.Lead, names ...string) crm.Lead {
	for _, n := range names {
		l.TagRelations = append(l.TagRelations, crm.TagRelation{Tag: &crm.Tag{ID: "tag-" + n, Name: n}})
	}
	return l
}

func leadsAt(prefix string, n int, created func(i int) time.Time) []crm.Lead {
	leads := make([]crm.Lead, n)
	for i := range leads {
		leads[i] = crm.Lead{ID: fmt.Sprintf("%s-%d", prefix, i), CreatedAt: created(i), CurrentStageName: "Novo Lead"}
	}
	return leads
}
