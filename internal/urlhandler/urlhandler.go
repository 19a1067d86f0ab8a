package urlhandler

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// DefaultEngine returns a process-wide engine using DefaultSecurityConfig and
// a memoization cache of DefaultCacheSize entries.
func DefaultEngine() *Engine {
	defaultEngineOnce.Do(func() {
		engine, err := NewEngine(DefaultSecurityConfig(), zerolog.Nop(), WithCacheSize(DefaultCacheSize))
		if err != nil {
			// Only reachable with a non-positive cache size.
			panic(err)
		}
		defaultEngine = engine
	})
	return defaultEngine
}

// CreateURLInfo processes raw against an optional base with the default engine.
// It never panics and always returns a URLInfo.
func CreateURLInfo(raw, base string) *URLInfo {
	return DefaultEngine().Create(raw, base)
}

// IsSafeURL reports whether raw passes resolution, parsing and validation
// under the default policy.
func IsSafeURL(raw string) bool {
	return DefaultEngine().IsSafeURL(raw)
}

// RootFor returns the root whose registered domain matches info, falling back
// to the first root. It returns nil when roots is empty.
func RootFor(info *URLInfo, roots []*URLInfo) *URLInfo {
	if len(roots) == 0 {
		return nil
	}
	if info == nil || !info.IsValid() {
		return roots[0]
	}
	for _, root := range roots {
		if root.IsValid() && PartitionKey(root) == PartitionKey(info) {
			return root
		}
	}
	return roots[0]
}

// PartitionKey is the per-domain grouping key: the registered domain, or the
// hostname when the registered domain is unknown.
func PartitionKey(info *URLInfo) string {
	if rd := info.RegisteredDomain(); rd != "" {
		return rd
	}
	return info.Hostname()
}
