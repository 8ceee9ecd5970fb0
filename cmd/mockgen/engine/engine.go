package engine

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"crm-analytics/internal/crm"
	"crm-analytics/internal/snapshot"

	"github.com/google/uuid"
)

type GeneratorConfig struct {
	Scenario string // "mild", "legacy" or "sparse"
	TenantID string
	Count    int
	Seed     int64
	Now      time.Time
}

type stageTemplate struct {
	name, color, legacy string
	weight              int // relative share of generated leads
}

var stageTemplates = []stageTemplate{
	{"Novo Lead", "#4299e1", "novo", 30},
	{"Em Atendimento", "#ed8936", "atendimento", 25},
	{"Visita Agendada", "#9f7aea", "visita", 15},
	{"Proposta", "#ecc94b", "proposta", 10},
	{"Venda Fechada", "#48bb78", "", 10},
	{"Perdido", "#f56565", "perdido", 10},
}

var tagNames = []string{"Quente", "Frio", "Investidor", "Primeiro Imóvel", "Indicação", "Portal"}

var brokers = []struct {
	name, team, status string
}{
	{"Ana Souza", "Norte", crm.StatusActive},
	{"Bruno Lima", "Norte", crm.StatusActive},
	{"Carla Dias", "Norte", "inativo"},
	{"Davi Rocha", "Sul", crm.StatusActive},
	{"Elisa Prado", "Sul", crm.StatusActive},
	{"Fábio Nunes", "Centro", crm.StatusActive},
	{"Gabi Torres", "Centro", crm.StatusActive},
	{"Hugo Melo", "", crm.StatusActive},
}

// id derives a stable UUID so that regenerating with the same seed rewrites the same records.
func id(tenant, kind string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%s/%d", tenant, kind, n))).String()
}

// Generate builds a synthetic tenant snapshot with leads spread over the past year.
func Generate(cfg GeneratorConfig) (crm.Snapshot, error) {
	switch cfg.Scenario {
	case "mild", "legacy", "sparse":
	default:
		return crm.Snapshot{}, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.TenantID == "" {
		cfg.TenantID = "MOCK_0"
	}
	if cfg.Scenario == "sparse" && cfg.Count > 40 {
		cfg.Count = 40
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	snap := crm.Snapshot{TenantID: cfg.TenantID, FetchedAt: cfg.Now}

	for i, st := range stageTemplates {
		snap.Stages = append(snap.Stages, crm.Stage{
			ID: id(cfg.TenantID, "stage", i), Name: st.name, Color: st.color, Order: i + 1, Active: true, LegacyKey: st.legacy,
		})
	}
	if cfg.Scenario == "legacy" {
		// The pre-migration sales stage survives as an inactive record owning the old key
		snap.Stages = append(snap.Stages, crm.Stage{
			ID: id(cfg.TenantID, "stage", len(stageTemplates)), Name: "Venda Fechada", Order: 99, Active: false, LegacyKey: "vendas-fechadas",
		})
	}

	teamIDs := map[string]string{}
	for _, b := range brokers {
		if b.team == "" || teamIDs[b.team] != "" {
			continue
		}
		teamIDs[b.team] = id(cfg.TenantID, "team", len(snap.Teams))
		snap.Teams = append(snap.Teams, crm.Team{ID: teamIDs[b.team], Name: b.team})
	}
	for i, b := range brokers {
		snap.Users = append(snap.Users, crm.User{ID: id(cfg.TenantID, "user", i), Name: b.name, TeamID: teamIDs[b.team], Status: b.status})
	}
	for i, name := range tagNames {
		snap.Tags = append(snap.Tags, crm.Tag{ID: id(cfg.TenantID, "tag", i), Name: name})
	}

	for i := 0; i < cfg.Count; i++ {
		snap.Leads = append(snap.Leads, generateLead(cfg, rng, snap, i))
	}
	return snap, nil
}

func generateLead(cfg GeneratorConfig, rng *rand.Rand, snap crm.Snapshot, i int) crm.Lead {
	created := cfg.Now.Add(-time.Duration(rng.Int63n(int64(365 * 24 * time.Hour))))
	stage := pickStage(rng)
	owner := snap.Users[rng.Intn(len(snap.Users))]

	l := crm.Lead{
		ID:               id(cfg.TenantID, "lead", i),
		CreatedAt:        created,
		CurrentStageName: stage.name,
		OwnerUserID:      owner.ID,
	}

	switch cfg.Scenario {
	case "legacy":
		if rng.Float64() < 0.4 {
			l.CurrentStageName = ""
			l.LegacyStage = stage.legacy
			if stage.name == "Venda Fechada" {
				l.LegacyStage = "vendas-fechadas"
			}
			if rng.Float64() < 0.1 {
				l.LegacyStage = "arquivado" // no stage owns this key anymore
			}
		}
		if rng.Float64() < 0.3 {
			l.OwnerUserID = ""
			l.User = &crm.UserRef{ID: owner.ID, Name: owner.Name, TeamID: owner.TeamID}
		}
	case "sparse":
		if rng.Float64() < 0.3 {
			l.OwnerUserID = ""
		}
		if rng.Float64() < 0.2 {
			l.CurrentStageName = "Etapa Removida"
		}
	}

	contactRate := 0.8
	if cfg.Scenario == "sparse" {
		contactRate = 0.3
	}
	if rng.Float64() < contactRate {
		// Mostly within hours; the odd backfilled contact predates creation
		gap := time.Duration(rng.ExpFloat64() * float64(3*time.Hour))
		if rng.Float64() < 0.02 {
			gap = -gap
		}
		t := created.Add(gap)
		l.FirstContactAt = &t
	}
	if rng.Float64() < contactRate {
		t := created.Add(time.Duration(rng.ExpFloat64() * float64(time.Hour)))
		l.FirstOpenedAt = &t
	}

	for _, tag := range snap.Tags {
		if rng.Float64() >= 0.25 {
			continue
		}
		if cfg.Scenario == "mild" {
			l.TagRelations = append(l.TagRelations, crm.TagRelation{Tag: &crm.Tag{ID: tag.ID, Name: tag.Name}})
		} else {
			l.TagIDs = append(l.TagIDs, tag.ID)
		}
	}
	if cfg.Scenario == "sparse" && rng.Float64() < 0.2 {
		l.TagRelations = append(l.TagRelations, crm.TagRelation{})
	}

	return l
}

func pickStage(rng *rand.Rand) stageTemplate {
	total := 0
	for _, st := range stageTemplates {
		total += st.weight
	}
	n := rng.Intn(total)
	for _, st := range stageTemplates {
		if n < st.weight {
			return st
		}
		n -= st.weight
	}
	return stageTemplates[0]
}

// Save writes the snapshot into outDir through the snapshot cache format.
func Save(outDir string, snap crm.Snapshot) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	store := snapshot.NewStore()
	store.Put(snap)
	return store.Save(outDir, snap.TenantID)
}
