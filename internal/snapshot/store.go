package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"crm-analytics/internal/crm"

	"github.com/rs/zerolog/log"
)

// maxLineSize bounds a single cached lead row.
const maxLineSize = 4 << 20

// Store provides thread-safe storage of tenant snapshots. Leads are kept
// ordered by creation time and unique by ID.
type Store struct {
	mu    sync.RWMutex
	snaps map[string]*crm.Snapshot
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{
		snaps: make(map[string]*crm.Snapshot),
	}
}

// Put replaces the tenant's catalog data (stages, users, teams, tags) and
// merges its leads into the stored ones.
func (s *Store) Put(snap crm.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putLocked(snap)
}

// Replace discards whatever is stored for the tenant and stores snap instead.
func (s *Store) Replace(snap crm.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snaps, snap.TenantID)
	s.putLocked(snap)
}

func (s *Store) putLocked(snap crm.Snapshot) {
	cur := s.tenant(snap.TenantID)
	cur.Stages = slices.Clone(snap.Stages)
	cur.Users = slices.Clone(snap.Users)
	cur.Teams = slices.Clone(snap.Teams)
	cur.Tags = slices.Clone(snap.Tags)
	if snap.FetchedAt.After(cur.FetchedAt) {
		cur.FetchedAt = snap.FetchedAt
	}
	appendLocked(cur, snap.Leads)
}

// Append merges leads into the tenant's log. A lead whose ID is already stored
// replaces the stored record, since a later fetch carries the newer stage.
// It returns the number of leads that were not stored before.
func (s *Store) Append(tenantID string, leads []crm.Lead) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return appendLocked(s.tenant(tenantID), leads)
}

// appendLocked merges leads into cur. Callers hold the write lock.
func appendLocked(cur *crm.Snapshot, leads []crm.Lead) int {
	index := make(map[string]int, len(cur.Leads))
	for i, l := range cur.Leads {
		index[l.ID] = i
	}

	added := 0
	for _, l := range leads {
		if l.ID == "" {
			continue
		}
		if i, ok := index[l.ID]; ok {
			cur.Leads[i] = l
			continue
		}
		index[l.ID] = len(cur.Leads)
		cur.Leads = append(cur.Leads, l)
		added++
	}

	sort.SliceStable(cur.Leads, func(i, j int) bool {
		a, b := cur.Leads[i], cur.Leads[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return added
}

// tenant returns the stored snapshot, creating it when absent. Callers hold the write lock.
func (s *Store) tenant(tenantID string) *crm.Snapshot {
	cur, ok := s.snaps[tenantID]
	if !ok {
		cur = &crm.Snapshot{TenantID: tenantID}
		s.snaps[tenantID] = cur
	}
	return cur
}

// Get returns a copy of the tenant's snapshot.
func (s *Store) Get(tenantID string) (crm.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur, ok := s.snaps[tenantID]
	if !ok {
		return crm.Snapshot{}, false
	}

	snap := *cur
	snap.Stages = slices.Clone(cur.Stages)
	snap.Leads = slices.Clone(cur.Leads)
	snap.Users = slices.Clone(cur.Users)
	snap.Teams = slices.Clone(cur.Teams)
	snap.Tags = slices.Clone(cur.Tags)
	return snap, true
}

// Tenants lists the stored tenant IDs in lexical order.
func (s *Store) Tenants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.snaps))
	for id := range s.snaps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of leads stored for a tenant.
func (s *Store) Count(tenantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cur, ok := s.snaps[tenantID]; ok {
		return len(cur.Leads)
	}
	return 0
}

// LeadsInRange returns a copy of the leads created within [from, to].
// A zero bound leaves that side open.
func (s *Store) LeadsInRange(tenantID string, from, to time.Time) []crm.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur, ok := s.snaps[tenantID]
	if !ok {
		return nil
	}

	var result []crm.Lead
	for _, l := range cur.Leads {
		if !from.IsZero() && l.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && l.CreatedAt.After(to) {
			break
		}
		result = append(result, l)
	}
	return result
}

// Load reads a tenant's cache files. Missing files are not an error.
func (s *Store) Load(cacheDir string, tenantID string) error {
	if err := validTenant(tenantID); err != nil {
		return err
	}

	metaPath, leadsPath := cachePaths(cacheDir, tenantID)

	meta, err := os.ReadFile(metaPath)
	switch {
	case err == nil:
		var snap crm.Snapshot
		if err := json.Unmarshal(meta, &snap); err != nil {
			return fmt.Errorf("failed to decode snapshot metadata: %w", err)
		}
		snap.TenantID = tenantID
		snap.Leads = nil
		s.Put(snap)
	case errors.Is(err, os.ErrNotExist):
		// leads without metadata are still usable
	default:
		return fmt.Errorf("failed to read snapshot metadata: %w", err)
	}

	file, err := os.Open(leadsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open lead cache: %w", err)
	}
	defer file.Close()

	leads, err := readLeads(file, tenantID)
	if err != nil {
		return err
	}

	log.Info().Str("tenant", tenantID).Int("count", len(leads)).Msg("Loaded leads from cache")
	s.Append(tenantID, leads)
	return nil
}

// readLeads decodes one lead row per line, skipping lines that cannot be mapped.
func readLeads(r io.Reader, tenantID string) ([]crm.Lead, error) {
	var leads []crm.Lead
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var row crm.LeadRow
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			log.Warn().Err(err).Str("tenant", tenantID).Int("line", line).Msg("Skipping invalid JSON line in cache")
			continue
		}
		l, err := crm.MapLead(row)
		if err != nil {
			log.Warn().Err(err).Str("tenant", tenantID).Int("line", line).Msg("Skipping unmappable lead in cache")
			continue
		}
		leads = append(leads, l)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lead cache: %w", err)
	}
	return leads, nil
}

// Save persists a tenant's snapshot: catalog data as JSON, leads as JSONL.
func (s *Store) Save(cacheDir string, tenantID string) error {
	if err := validTenant(tenantID); err != nil {
		return err
	}

	snap, ok := s.Get(tenantID)
	if !ok {
		return nil
	}

	metaPath, leadsPath := cachePaths(cacheDir, tenantID)
	leads := snap.Leads
	snap.Leads = nil

	if err := writeAtomic(metaPath, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}); err != nil {
		return fmt.Errorf("failed to save snapshot metadata: %w", err)
	}

	if err := writeAtomic(leadsPath, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		for _, l := range leads {
			if err := enc.Encode(crm.ToRow(l)); err != nil {
				return fmt.Errorf("failed to encode lead %s: %w", l.ID, err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to save lead cache: %w", err)
	}

	log.Info().Str("tenant", tenantID).Int("count", len(leads)).Msg("Snapshot saved to cache")
	return nil
}

// writeAtomic writes through a temp file and renames it over path.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := write(writer); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// CacheModTime returns the latest modification time of the tenant's cache
// files, or the zero time when neither exists.
func CacheModTime(cacheDir, tenantID string) (time.Time, error) {
	if err := validTenant(tenantID); err != nil {
		return time.Time{}, err
	}

	var latest time.Time
	metaPath, leadsPath := cachePaths(cacheDir, tenantID)
	for _, path := range []string{metaPath, leadsPath} {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to stat cache file: %w", err)
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest, nil
}

func cachePaths(cacheDir, tenantID string) (meta, leads string) {
	return filepath.Join(cacheDir, tenantID+".json"),
		filepath.Join(cacheDir, tenantID+"-leads.jsonl")
}

// validTenant rejects IDs that would escape the cache directory.
func validTenant(tenantID string) error {
	if tenantID == "" || tenantID == "." || tenantID == ".." || strings.ContainsAny(tenantID, `/\`) {
		return fmt.Errorf("invalid tenant id %q", tenantID)
	}
	return nil
}
