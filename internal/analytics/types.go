package analytics

import (
	"encoding/json"

	"crm-analytics/internal/crm"
)

// StageCount is one funnel bucket.
type StageCount struct {
	Stage string `json:"etapa"`
	Color string `json:"cor,omitempty"`
	Order int    `json:"ordem"`
	Count int    `json:"total"`
}

// StageTally holds one bucket per active stage in funnel order.
type StageTally []StageCount

// Map returns the tally keyed by stage name.
func (t StageTally) Map() map[string]int {
	m := make(map[string]int, len(t))
	for _, c := range t {
		m[c.Stage] = c.Count
	}
	return m
}

// Total sums all buckets.
func (t StageTally) Total() int {
	total := 0
	for _, c := range t {
		total += c.Count
	}
	return total
}

// Get returns the count of a stage and whether the stage has a bucket.
func (t StageTally) Get(stage string) (int, bool) {
	for _, c := range t {
		if c.Stage == stage {
			return c.Count, true
		}
	}
	return 0, false
}

// MarshalJSON keeps funnel order; a JSON object would lose it.
func (t StageTally) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]StageCount(t))
}

// TagTally is the tag cross-tabulation of a lead collection.
type TagTally struct {
	TotalByTag    map[string]int            `json:"totalPorEtiqueta"`
	ByStageAndTag map[string]map[string]int `json:"etiquetasPorEtapa"`
}

// StageTagRow is the tag breakdown of a single active stage.
type StageTagRow struct {
	Stage string         `json:"etapa"`
	Tags  map[string]int `json:"etiquetas"`
}

func newStageCount(s crm.Stage) StageCount {
	return StageCount{Stage: s.Name, Color: s.Color, Order: s.Order}
}
