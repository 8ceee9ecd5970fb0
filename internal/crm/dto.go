package crm

import (
	"fmt"
	"time"
)

// LeadRow is a lead as returned by the backend: the raw row joined with its
// owner and its tag relations.
type LeadRow struct {
	ID               string           `json:"id"`
	CreatedAt        string           `json:"created_at"`
	EtapaAtual       string           `json:"etapa_atual,omitempty"` // Current free-text stage name
	Etapa            string           `json:"etapa,omitempty"`       // Legacy stage key
	UserID           string           `json:"user_id,omitempty"`
	PrimeiroContato  string           `json:"primeiro_contato_em,omitempty"`
	PrimeiraAbertura string           `json:"primeira_abertura_em,omitempty"`
	User             *UserRowDTO      `json:"user,omitempty"`
	TagRelations     []TagRelationDTO `json:"lead_tag_relations,omitempty"`
	TagIDs           []string         `json:"tag_ids,omitempty"`
}

// UserRowDTO is the joined owner projection.
type UserRowDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"equipe_id,omitempty"`
}

// TagRelationDTO is one row of the lead/tag join table with its tag expanded.
type TagRelationDTO struct {
	Tag *TagDTO `json:"tag"`
}

// TagDTO is the expanded tag of a relation.
type TagDTO struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02",
}

// ParseTime accepts the timestamp shapes the backend emits.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// MapLead transforms a backend row into a domain Lead.
// Unparseable optional timestamps are dropped; an unparseable creation time is an error.
func MapLead(row LeadRow) (Lead, error) {
	created, err := ParseTime(row.CreatedAt)
	if err != nil {
		return Lead{}, fmt.Errorf("lead %s: created_at: %w", row.ID, err)
	}

	lead := Lead{
		ID:               row.ID,
		CreatedAt:        created,
		CurrentStageName: row.EtapaAtual,
		LegacyStage:      row.Etapa,
		OwnerUserID:      row.UserID,
		TagIDs:           row.TagIDs,
	}

	if row.PrimeiroContato != "" {
		if t, err := ParseTime(row.PrimeiroContato); err == nil {
			lead.FirstContactAt = &t
		}
	}
	if row.PrimeiraAbertura != "" {
		if t, err := ParseTime(row.PrimeiraAbertura); err == nil {
			lead.FirstOpenedAt = &t
		}
	}

	if row.User != nil {
		lead.User = &UserRef{ID: row.User.ID, Name: row.User.Name, TeamID: row.User.TeamID}
	}

	for _, rel := range row.TagRelations {
		// Dangling relations are kept so the tally can skip them explicitly
		if rel.Tag == nil {
			lead.TagRelations = append(lead.TagRelations, TagRelation{})
			continue
		}
		lead.TagRelations = append(lead.TagRelations, TagRelation{Tag: &Tag{ID: rel.Tag.ID, Name: rel.Tag.Name}})
	}

	return lead, nil
}

// ToRow is the inverse of MapLead, used when writing lead caches.
func ToRow(l Lead) LeadRow {
	row := LeadRow{
		ID:         l.ID,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339Nano),
		EtapaAtual: l.CurrentStageName,
		Etapa:      l.LegacyStage,
		UserID:     l.OwnerUserID,
		TagIDs:     l.TagIDs,
	}
	if l.FirstContactAt != nil {
		row.PrimeiroContato = l.FirstContactAt.Format(time.RFC3339Nano)
	}
	if l.FirstOpenedAt != nil {
		row.PrimeiraAbertura = l.FirstOpenedAt.Format(time.RFC3339Nano)
	}
	if l.User != nil {
		row.User = &UserRowDTO{ID: l.User.ID, Name: l.User.Name, TeamID: l.User.TeamID}
	}
	for _, rel := range l.TagRelations {
		if rel.Tag == nil {
			row.TagRelations = append(row.TagRelations, TagRelationDTO{})
			continue
		}
		row.TagRelations = append(row.TagRelations, TagRelationDTO{Tag: &TagDTO{ID: rel.Tag.ID, Name: rel.Tag.Name}})
	}
	return row
}
