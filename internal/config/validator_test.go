package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*GlobalConfig) {}},
		{
			name:    "unknown log level",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			wantErr: "'LogConfig.LogLevel': rule 'loglevel'",
		},
		{
			name:    "unknown log format",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr: "'LogConfig.LogFormat': rule 'logformat'",
		},
		{
			name:    "script scheme can never be allowed",
			mutate:  func(cfg *GlobalConfig) { cfg.URLEngineConfig.AllowedSchemes = []string{"https", "javascript"} },
			wantErr: "rule 'scheme'",
		},
		{
			name:    "malformed scheme",
			mutate:  func(cfg *GlobalConfig) { cfg.URLEngineConfig.AllowedSchemes = []string{"ht tp"} },
			wantErr: "rule 'scheme'",
		},
		{
			name:    "malformed network",
			mutate:  func(cfg *GlobalConfig) { cfg.URLEngineConfig.ExtraDisallowedNetworks = []string{"10.0.0.0/33"} },
			wantErr: "rule 'cidr'",
		},
		{
			name:    "negative cache size",
			mutate:  func(cfg *GlobalConfig) { cfg.URLEngineConfig.CacheSize = -1 },
			wantErr: "'URLEngineConfig.CacheSize': rule 'min'",
		},
		{
			name:    "zero concurrency",
			mutate:  func(cfg *GlobalConfig) { cfg.CrawlerConfig.MaxConcurrentRequests = 0 },
			wantErr: "'CrawlerConfig.MaxConcurrentRequests': rule 'min' (expected: 1)",
		},
		{
			name:    "empty user agent",
			mutate:  func(cfg *GlobalConfig) { cfg.CrawlerConfig.UserAgent = "" },
			wantErr: "rule 'required'",
		},
		{
			name:   "valid seeds",
			mutate: func(cfg *GlobalConfig) { cfg.CrawlerConfig.SeedURLs = []string{"https://docs.example.com/", "docs.example.org/guide"} },
		},
		{
			name:    "seed on a private network",
			mutate:  func(cfg *GlobalConfig) { cfg.CrawlerConfig.SeedURLs = []string{"http://10.0.0.5/docs"} },
			wantErr: "'CrawlerConfig.SeedURLs': rule 'seedurls'",
		},
		{
			name: "private seed allowed by engine config",
			mutate: func(cfg *GlobalConfig) {
				cfg.URLEngineConfig.AllowPrivateNetworks = true
				cfg.CrawlerConfig.SeedURLs = []string{"http://10.0.0.5/docs"}
			},
		},
		{
			name: "metadata seed stays rejected",
			mutate: func(cfg *GlobalConfig) {
				cfg.URLEngineConfig.AllowPrivateNetworks = true
				cfg.CrawlerConfig.SeedURLs = []string{"http://169.254.169.254/latest/meta-data/"}
			},
			wantErr: "rule 'seedurls'",
		},
		{
			name: "seed on a configured host",
			mutate: func(cfg *GlobalConfig) {
				cfg.URLEngineConfig.ExtraDisallowedHosts = []string{"internal.example.com"}
				cfg.CrawlerConfig.SeedURLs = []string{"https://internal.example.com/"}
			},
			wantErr: "rule 'seedurls'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuration validation failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
