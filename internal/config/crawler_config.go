package config

// CrawlerScopeConfig narrows what the crawler fetches beyond the engine's own checks.
type CrawlerScopeConfig struct {
	DisallowedHostnames      []string `json:"disallowed_hostnames,omitempty" yaml:"disallowed_hostnames,omitempty"`
	DisallowedFileExtensions []string `json:"disallowed_file_extensions,omitempty" yaml:"disallowed_file_extensions,omitempty"`
}

// NewDefaultCrawlerScopeConfig skips binary assets and restricts no hostnames.
func NewDefaultCrawlerScopeConfig() CrawlerScopeConfig {
	return CrawlerScopeConfig{
		DisallowedHostnames:      []string{},
		DisallowedFileExtensions: append([]string(nil), DefaultDisallowedFileExtensions...),
	}
}

// CrawlerConfig defines how the documentation crawl is driven.
type CrawlerConfig struct {
	SeedURLs              []string           `json:"seed_urls,omitempty" yaml:"seed_urls,omitempty" validate:"omitempty,seedurls"`
	UserAgent             string             `json:"user_agent,omitempty" yaml:"user_agent,omitempty" validate:"required"`
	RequestTimeoutSecs    int                `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"min=1"`
	MaxConcurrentRequests int                `json:"max_concurrent_requests,omitempty" yaml:"max_concurrent_requests,omitempty" validate:"min=1"`
	MaxDepth              int                `json:"max_depth" yaml:"max_depth" validate:"min=0"`
	MaxInternalPages      int                `json:"max_internal_pages" yaml:"max_internal_pages" validate:"min=0"`
	IncludeExternal       bool               `json:"include_external" yaml:"include_external"`
	RespectRobotsTxt      bool               `json:"respect_robots_txt" yaml:"respect_robots_txt"`
	Scope                 CrawlerScopeConfig `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// NewDefaultCrawlerConfig creates a CrawlerConfig with default values.
func NewDefaultCrawlerConfig() CrawlerConfig {
	return CrawlerConfig{
		SeedURLs:              []string{},
		UserAgent:             DefaultCrawlerUserAgent,
		RequestTimeoutSecs:    DefaultCrawlerRequestTimeoutSecs,
		MaxConcurrentRequests: DefaultCrawlerMaxConcurrentRequests,
		MaxDepth:              DefaultCrawlerMaxDepth,
		MaxInternalPages:      DefaultCrawlerMaxInternalPages,
		RespectRobotsTxt:      DefaultCrawlerRespectRobotsTxt,
		Scope:                 NewDefaultCrawlerScopeConfig(),
	}
}
