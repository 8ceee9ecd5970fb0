package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crm-analytics/internal/analytics"
	"crm-analytics/internal/config"
	"crm-analytics/internal/crm"
	"crm-analytics/internal/snapshot"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const (
	serverName    = "crm-analytics"
	serverVersion = "0.1.0"
)

// Server exposes the report builders as MCP tools over tenant snapshots held in a store.
type Server struct {
	cfg    *config.AppConfig
	engine *analytics.Engine
	store  *snapshot.Store

	loadMu sync.Mutex
	loaded map[string]time.Time // cache mtime of the last successful load
}

// NewServer creates a new MCP server.
func NewServer(cfg *config.AppConfig, engine *analytics.Engine, store *snapshot.Store) *Server {
	return &Server{
		cfg:    cfg,
		engine: engine,
		store:  store,
		loaded: make(map[string]time.Time),
	}
}

// Serve runs the MCP protocol over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	server, err := s.build()
	if err != nil {
		return err
	}

	log.Info().Str("cacheDir", s.cfg.CacheDir).Msg("MCP server listening on stdio")
	if err := server.Run(ctx, &sdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// build registers every tool on a fresh SDK server.
func (s *Server) build() (*sdk.Server, error) {
	server := sdk.NewServer(&sdk.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := s.registerTools(server); err != nil {
		return nil, err
	}
	return server, nil
}

// snapshotFor returns the tenant's snapshot. The cache is read again whenever
// its files change on disk, and the reloaded copy replaces the stored one.
func (s *Server) snapshotFor(tenantID string) (crm.Snapshot, error) {
	if err := s.reloadIfChanged(tenantID); err != nil {
		return crm.Snapshot{}, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}

	snap, ok := s.store.Get(tenantID)
	if !ok {
		return crm.Snapshot{}, fmt.Errorf("no snapshot cached for tenant %q", tenantID)
	}
	return snap, nil
}

func (s *Server) reloadIfChanged(tenantID string) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	mod, err := snapshot.CacheModTime(s.cfg.CacheDir, tenantID)
	if err != nil {
		return err
	}
	if mod.IsZero() {
		return nil
	}
	if seen, ok := s.loaded[tenantID]; ok && seen.Equal(mod) {
		return nil
	}

	fresh := snapshot.NewStore()
	if err := fresh.Load(s.cfg.CacheDir, tenantID); err != nil {
		return err
	}
	snap, ok := fresh.Get(tenantID)
	if !ok {
		return nil
	}
	s.store.Replace(snap)
	s.loaded[tenantID] = mod
	log.Debug().Str("tenant", tenantID).Time("modified", mod).Msg("Tenant cache loaded")
	return nil
}
