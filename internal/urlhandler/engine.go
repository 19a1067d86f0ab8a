package urlhandler

import (
	"fmt"
	"net/http/cookiejar"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultCacheSize is the memoization cache size of the default engine.
const DefaultCacheSize = 10000

type cacheKey struct {
	raw  string
	base string
}

// Engine turns raw strings into URLInfo values:
// Resolver -> Parser -> Validator -> Normalizer -> DomainParser -> Classify.
// It holds no mutable state besides the optional LRU cache, which is safe
// for concurrent use.
type Engine struct {
	cfg        *SecurityConfig
	resolver   *Resolver
	parser     *Parser
	validator  *Validator
	normalizer *Normalizer
	domains    *DomainParser
	logger     zerolog.Logger

	cacheSize  int
	suffixList cookiejar.PublicSuffixList
	cache      *lru.Cache[cacheKey, *URLInfo]
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCacheSize enables memoization of up to n results. n <= 0 disables it.
func WithCacheSize(n int) EngineOption {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithPublicSuffixList replaces the embedded public suffix list.
func WithPublicSuffixList(list cookiejar.PublicSuffixList) EngineOption {
	return func(e *Engine) {
		e.suffixList = list
	}
}

// NewEngine wires the pipeline stages around cfg. A nil cfg selects DefaultSecurityConfig.
func NewEngine(cfg *SecurityConfig, logger zerolog.Logger, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultSecurityConfig()
	}
	e := &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "URLEngine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.resolver = NewResolver(cfg)
	e.parser = NewParser(cfg)
	e.validator = NewValidator(cfg)
	e.normalizer = NewNormalizer(cfg)
	e.domains = NewDomainParser(e.suffixList, logger)

	if e.cacheSize > 0 {
		cache, err := lru.New[cacheKey, *URLInfo](e.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create URL cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Create processes raw against an optional base string. It never panics and
// always returns a URLInfo, which may be invalid.
func (e *Engine) Create(raw, base string) *URLInfo {
	if base == "" {
		return e.CreateWithBase(raw, nil)
	}
	return e.CreateWithBase(raw, e.CreateWithBase(base, nil))
}

// CreateWithBase processes raw against an already processed base, so a crawl
// root is parsed once and reused for every discovered link. An invalid base
// is treated as absent.
func (e *Engine) CreateWithBase(raw string, base *URLInfo) *URLInfo {
	key := cacheKey{raw: raw}
	if base != nil && base.IsValid() {
		key.base = base.normalized
	} else {
		base = nil
	}

	if e.cache != nil {
		if info, ok := e.cache.Get(key); ok {
			return info
		}
	}

	info := e.build(raw, base)
	if e.cache != nil {
		e.cache.Add(key, info)
	}
	return info
}

// IsSafeURL runs resolution, parsing and validation only. It is a cheap
// pre-filter for absolute URLs; relative references are never safe on their own.
func (e *Engine) IsSafeURL(raw string) (safe bool) {
	defer func() {
		if r := recover(); r != nil {
			safe = false
		}
	}()

	resolved, err := e.resolver.Resolve(raw, "")
	if err != nil {
		return false
	}
	parsed, err := e.parser.Parse(resolved)
	if err != nil {
		return false
	}
	return e.validator.Validate(parsed) == nil
}

func (e *Engine) build(raw string, base *URLInfo) (info *URLInfo) {
	info = &URLInfo{raw: raw, engine: e}

	defer func() {
		if r := recover(); r != nil {
			err := wrapURLError(KindInternalError, fmt.Errorf("%v", r), "unexpected failure while processing URL")
			e.logger.Warn().Str("url", raw).Err(err).Msg("Recovered from panic in URL pipeline")
			info = &URLInfo{raw: raw, normalized: info.normalized, err: err, engine: e}
		}
	}()

	baseStr := ""
	var baseComponents *Components
	if base != nil {
		baseStr = base.normalized
		c := base.components()
		baseComponents = &c
	}

	resolved, err := e.resolver.Resolve(raw, baseStr)
	info.normalized, _ = stripUserinfo(resolved.URL)
	info.fragment = resolved.Fragment
	info.hasFragment = resolved.HasFragment
	if err != nil {
		return e.reject(info, err)
	}

	parsed, err := e.parser.Parse(resolved)
	info.hadTrailingSlash = parsed.HadTrailingSlash
	if err != nil {
		return e.reject(info, err)
	}
	if err := e.validator.Validate(parsed); err != nil {
		return e.reject(info, err)
	}

	norm, err := e.normalizer.Normalize(parsed)
	if err != nil {
		return e.reject(info, err)
	}

	info.normalized = norm.URL
	info.scheme = norm.Scheme
	info.host = norm.Host
	info.ipv6 = norm.IPv6
	info.port = norm.Port
	info.path = norm.Path
	info.query = norm.Query
	info.params = norm.Params
	info.domain = e.domains.Parse(norm.Host)
	info.urlType = Classify(info.components(), baseComponents)
	return info
}

func (e *Engine) reject(info *URLInfo, err *URLError) *URLInfo {
	info.err = err
	e.logger.Debug().
		Str("url", info.raw).
		Str("kind", err.Kind.String()).
		Str("reason", err.Reason).
		Msg("URL rejected")
	return info
}
