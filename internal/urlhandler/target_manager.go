package urlhandler

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoTargets is returned when no seed source yields a URL.
var ErrNoTargets = errors.New("no seed URLs provided")

// TargetManager loads crawl seeds from files and explicit arguments.
type TargetManager struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTargetManager creates a new TargetManager instance
func NewTargetManager(engine *Engine, logger zerolog.Logger) *TargetManager {
	if engine == nil {
		engine = DefaultEngine()
	}
	return &TargetManager{
		engine: engine,
		logger: logger.With().Str("component", "TargetManager").Logger(),
	}
}

// LoadSeeds combines seeds from inputFile (optional) and extra. An explicitly
// supplied seed that fails validation is fatal and returned as *SeedError;
// invalid lines in the file are skipped. Duplicates are dropped by normalized URL.
func (tm *TargetManager) LoadSeeds(inputFile string, extra []string) ([]Target, error) {
	var targets []Target
	seen := make(map[string]struct{})

	add := func(t Target) {
		key := t.Info.Key()
		if _, dup := seen[key]; dup {
			tm.logger.Debug().Str("url", key).Msg("Duplicate seed, skipping")
			return
		}
		seen[key] = struct{}{}
		targets = append(targets, t)
	}

	for _, raw := range extra {
		info := tm.engine.Create(raw, "")
		if !info.IsValid() {
			return nil, &SeedError{Seed: raw, Kind: info.ErrorKind(), Err: info.Err()}
		}
		add(Target{OriginalURL: raw, Source: "argument", Info: info})
	}

	if inputFile != "" {
		urls, err := ReadURLsFromFile(inputFile, tm.engine, tm.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load seeds from file '%s': %w", inputFile, err)
		}
		for _, info := range urls {
			add(Target{OriginalURL: info.RawURL(), Source: inputFile, Info: info})
		}
	}

	if len(targets) == 0 {
		tm.logger.Warn().Msg("No input source configured for targets")
		return nil, ErrNoTargets
	}

	tm.logger.Info().Int("count", len(targets)).Msg("Loaded seed targets")
	return targets, nil
}

// GetTargetStrings extracts normalized URL strings from targets.
func (tm *TargetManager) GetTargetStrings(targets []Target) []string {
	urls := make([]string, len(targets))
	for i, target := range targets {
		urls[i] = target.NormalizedURL()
	}
	return urls
}

// Roots returns the processed URL of each target, for RootFor and classification.
func Roots(targets []Target) []*URLInfo {
	roots := make([]*URLInfo, len(targets))
	for i, target := range targets {
		roots[i] = target.Info
	}
	return roots
}
