package config

import "github.com/aleister1102/doccrawler/internal/urlhandler"

// URLEngineConfig holds the security policy and cache sizing of the URL engine.
type URLEngineConfig struct {
	AllowedSchemes          []string `json:"allowed_schemes,omitempty" yaml:"allowed_schemes,omitempty" validate:"omitempty,dive,scheme"`
	ExtraDisallowedHosts    []string `json:"extra_disallowed_hosts,omitempty" yaml:"extra_disallowed_hosts,omitempty" validate:"omitempty,dive,required"`
	ExtraDisallowedNetworks []string `json:"extra_disallowed_networks,omitempty" yaml:"extra_disallowed_networks,omitempty" validate:"omitempty,dive,cidr"`
	AllowPrivateNetworks    bool     `json:"allow_private_networks" yaml:"allow_private_networks"`
	MaxPathLength           int      `json:"max_path_length,omitempty" yaml:"max_path_length,omitempty" validate:"min=1"`
	MaxQueryLength          int      `json:"max_query_length,omitempty" yaml:"max_query_length,omitempty" validate:"min=1"`
	CacheSize               int      `json:"cache_size" yaml:"cache_size" validate:"min=0"`
}

// NewDefaultURLEngineConfig creates default URL engine configuration
func NewDefaultURLEngineConfig() URLEngineConfig {
	return URLEngineConfig{
		AllowedSchemes: append([]string(nil), DefaultAllowedSchemes...),
		MaxPathLength:  DefaultURLEngineMaxPathLength,
		MaxQueryLength: DefaultURLEngineMaxQueryLength,
		CacheSize:      DefaultURLEngineCacheSize,
	}
}

// SecurityOptions maps the configuration section onto the engine's options.
func (c URLEngineConfig) SecurityOptions() urlhandler.SecurityOptions {
	opts := urlhandler.DefaultSecurityOptions()
	if len(c.AllowedSchemes) > 0 {
		opts.AllowedSchemes = append([]string(nil), c.AllowedSchemes...)
	}
	opts.ExtraDisallowedHosts = append([]string(nil), c.ExtraDisallowedHosts...)
	opts.ExtraDisallowedNetworks = append([]string(nil), c.ExtraDisallowedNetworks...)
	opts.AllowPrivateNetworks = c.AllowPrivateNetworks
	if c.MaxPathLength > 0 {
		opts.MaxPathLength = c.MaxPathLength
	}
	if c.MaxQueryLength > 0 {
		opts.MaxQueryLength = c.MaxQueryLength
	}
	return opts
}
