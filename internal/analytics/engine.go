package analytics

import (
	"crm-analytics/internal/crm"
)

const (
	DefaultTeamRankLimit = 3
	DefaultUserRankLimit = 5
)

// Options tunes the engine. Zero values fall back to the defaults.
type Options struct {
	Rules             StageRules
	TeamRankLimit     int
	UserRankLimit     int
	DefaultWindowDays int
}

// Engine builds reports from snapshots. It holds configuration only, so a single
// Engine may serve concurrent report builds.
type Engine struct {
	rules             StageRules
	teamRankLimit     int
	userRankLimit     int
	defaultWindowDays int
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		rules:             opts.Rules.WithDefaults(),
		teamRankLimit:     opts.TeamRankLimit,
		userRankLimit:     opts.UserRankLimit,
		defaultWindowDays: opts.DefaultWindowDays,
	}
	if e.teamRankLimit <= 0 {
		e.teamRankLimit = DefaultTeamRankLimit
	}
	if e.userRankLimit <= 0 {
		e.userRankLimit = DefaultUserRankLimit
	}
	if e.defaultWindowDays <= 0 {
		e.defaultWindowDays = DefaultWindowDays
	}
	return e
}

// Rules returns the effective stage rules.
func (e *Engine) Rules() StageRules {
	return e.rules
}

// Pipeline prepares stage resolution for a snapshot.
func (e *Engine) Pipeline(snap crm.Snapshot) *Pipeline {
	return NewPipeline(snap.Stages, e.rules)
}
