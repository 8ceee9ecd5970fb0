package analytics

import (
	"testing"

	"crm-analytics/internal/crm"
)

func TestStageClassifier_FindSpecial(t *testing.T) {
	c := NewStageClassifier(DefaultStageRules())

	tests := []struct {
		name   string
		stages []crm.Stage
		kind   SpecialKind
		want   string
	}{
		{"SuccessByKeyword", []crm.Stage{{Name: "Novo"}, {Name: "Venda Concluída"}}, Success, "Venda Concluída"},
		{"SuccessCaseInsensitive", []crm.Stage{{Name: "NEGÓCIO FECHADA"}}, Success, "NEGÓCIO FECHADA"},
		{"SuccessByLegacyKey", []crm.Stage{{Name: "Ganho", LegacyKey: "vendas-fechadas"}}, Success, "Ganho"},
		{"VisitByKeyword", []crm.Stage{{Name: "Novo"}, {Name: "Visitas"}}, Visit, "Visitas"},
		{"VisitByLegacyKey", []crm.Stage{{Name: "Tour", LegacyKey: "visita"}}, Visit, "Tour"},
		{"FirstMatchWins", []crm.Stage{{Name: "Venda Iniciada"}, {Name: "Venda Fechada"}}, Success, "Venda Iniciada"},
		{"NoMatch", []crm.Stage{{Name: "Novo"}, {Name: "Perdido"}}, Success, ""},
		{"NoStages", nil, Visit, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.FindSpecial(tt.stages, tt.kind)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Expected no match, got %+v", got)
				}
				return
			}
			if got == nil || got.Name != tt.want {
				t.Errorf("FindSpecial() = %+v, want %q", got, tt.want)
			}
		})
	}
}

func TestStageRules_WithDefaults(t *testing.T) {
	rules := StageRules{Visit: StageRule{Keywords: []string{"tour"}}}.WithDefaults()

	if rules.Success.LegacyKey != "vendas-fechadas" {
		t.Errorf("Expected success rule to fall back to defaults, got %+v", rules.Success)
	}
	if len(rules.Visit.Keywords) != 1 || rules.Visit.Keywords[0] != "tour" {
		t.Errorf("Expected custom visit rule to be kept, got %+v", rules.Visit)
	}
}

func TestStageRules_ForUnknownKind(t *testing.T) {
	rules := DefaultStageRules()
	if got := rules.For(SpecialKind("lost")); len(got.Keywords) != 0 || got.LegacyKey != "" {
		t.Errorf("Expected an empty rule for an unknown kind, got %+v", got)
	}
	if got := rules.For(Visit); got.LegacyKey != "visita" {
		t.Errorf("Expected the visit rule, got %+v", got)
	}

	p := NewPipeline(tenantStages(), rules)
	if got := p.Special(SpecialKind("lost")); got != nil {
		t.Errorf("Expected no stage for an unknown kind, got %+v", got)
	}
	sale := lead("L1", "", "vendas-fechadas", "")
	if p.InSpecial(sale, SpecialKind("lost")) {
		t.Error("Expected a legacy sale not to count for an unknown kind")
	}
	if !p.InSpecial(sale, Success) {
		t.Error("Expected the legacy sale to count as a success")
	}
}
