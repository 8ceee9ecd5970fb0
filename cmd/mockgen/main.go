package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"crm-analytics/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, legacy, sparse")
	tenant := flag.String("tenant", "MOCK_0", "Tenant identifier of the generated snapshot")
	outDir := flag.String("out", "./cache", "Output directory for the snapshot cache")
	count := flag.Int("count", 400, "Number of leads to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		TenantID: *tenant,
		Count:    *count,
		Seed:     *seed,
		Now:      time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Tenant: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.TenantID, cfg.Count, *outDir)

	snap, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate mock data: %v\n", err)
		os.Exit(1)
	}

	if err := engine.Save(*outDir, snap); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
