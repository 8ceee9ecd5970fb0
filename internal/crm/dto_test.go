package crm

import (
	"testing"
	"time"
)

func TestMapLead(t *testing.T) {
	row := LeadRow{
		ID:              "L1",
		CreatedAt:       "2025-03-10T09:00:00Z",
		Etapa:           "vendas-fechadas",
		UserID:          "U1",
		PrimeiroContato: "2025-03-10T11:30:00Z",
		User:            &UserRowDTO{ID: "U1", Name: "Ana", TeamID: "T1"},
		TagRelations: []TagRelationDTO{
			{Tag: &TagDTO{ID: "g1", Name: "Quente"}},
			{Tag: nil},
		},
	}

	lead, err := MapLead(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lead.LegacyStage != "vendas-fechadas" || lead.CurrentStageName != "" {
		t.Errorf("Stage fields mismatch: %+v", lead)
	}
	if lead.FirstContactAt == nil || lead.FirstContactAt.Sub(lead.CreatedAt) != 150*time.Minute {
		t.Errorf("Expected first contact 2h30 after creation, got %v", lead.FirstContactAt)
	}
	if lead.User == nil || lead.User.TeamID != "T1" {
		t.Errorf("Expected embedded user with team T1, got %+v", lead.User)
	}
	if len(lead.TagRelations) != 2 {
		t.Fatalf("Expected 2 relations (one dangling), got %d", len(lead.TagRelations))
	}
	if tags := lead.Tags(nil); len(tags) != 1 || tags[0].Name != "Quente" {
		t.Errorf("Expected dangling relation to be skipped, got %+v", tags)
	}
}

func TestMapLead_InvalidCreatedAt(t *testing.T) {
	if _, err := MapLead(LeadRow{ID: "L1", CreatedAt: "yesterday"}); err == nil {
		t.Error("expected error for unparseable created_at, got nil")
	}
}

func TestMapLead_RoundTrip(t *testing.T) {
	contact := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	lead := Lead{
		ID:               "L9",
		CreatedAt:        time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
		CurrentStageName: "Visita",
		OwnerUserID:      "U2",
		FirstContactAt:   &contact,
		TagRelations:     []TagRelation{{Tag: &Tag{ID: "g1", Name: "Investidor"}}},
	}

	back, err := MapLead(ToRow(lead))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.CreatedAt.Equal(lead.CreatedAt) || back.CurrentStageName != "Visita" || back.Owner() != "U2" {
		t.Errorf("Round trip mismatch: %+v", back)
	}
	if back.FirstContactAt == nil || !back.FirstContactAt.Equal(contact) {
		t.Errorf("First contact lost in round trip: %v", back.FirstContactAt)
	}
}

func TestLeadTags_CatalogFallback(t *testing.T) {
	catalog := map[string]Tag{"g1": {ID: "g1", Name: "Quente"}}
	lead := Lead{TagIDs: []string{"g1", "deleted"}}

	tags := lead.Tags(catalog)
	if len(tags) != 1 || tags[0].Name != "Quente" {
		t.Errorf("Expected only the catalogued tag, got %+v", tags)
	}
}

func TestLeadTags_DanglingRelationsFallBackToIDs(t *testing.T) {
	catalog := map[string]Tag{"g1": {ID: "g1", Name: "Quente"}}
	lead := Lead{
		TagRelations: []TagRelation{{Tag: nil}, {Tag: &Tag{ID: "g2"}}},
		TagIDs:       []string{"g1"},
	}

	tags := lead.Tags(catalog)
	if len(tags) != 1 || tags[0].Name != "Quente" {
		t.Errorf("Expected the catalogued tag from TagIDs, got %+v", tags)
	}

	lead.TagRelations = append(lead.TagRelations, TagRelation{Tag: &Tag{ID: "g3", Name: "Frio"}})
	if tags := lead.Tags(catalog); len(tags) != 1 || tags[0].Name != "Frio" {
		t.Errorf("Expected the joined relation to win, got %+v", tags)
	}
}

func TestLeadOwner(t *testing.T) {
	if got := (Lead{User: &UserRef{ID: "U7"}}).Owner(); got != "U7" {
		t.Errorf("Expected owner from embedded user, got %q", got)
	}
	if got := (Lead{OwnerUserID: "U1", User: &UserRef{ID: "U7"}}).Owner(); got != "U1" {
		t.Errorf("Expected explicit owner to win, got %q", got)
	}
}
