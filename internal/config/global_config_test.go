package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/doccrawler/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
	assert.Equal(t, []string{"http", "https"}, cfg.URLEngineConfig.AllowedSchemes)
	assert.Equal(t, DefaultURLEngineCacheSize, cfg.URLEngineConfig.CacheSize)
	assert.Equal(t, DefaultCrawlerMaxInternalPages, cfg.CrawlerConfig.MaxInternalPages)
	assert.Contains(t, cfg.CrawlerConfig.Scope.DisallowedFileExtensions, ".pdf")
	assert.True(t, cfg.ExtractorConfig.ParseInlineScripts)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnv, "")

	cfg, err := LoadGlobalConfig("", zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig(), cfg)
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidConfiguration))
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"log_config": {"log_level": "debug"},
		"url_engine_config": {"allow_private_networks": true, "cache_size": 0},
		"crawler_config": {"user_agent": "test-agent", "seed_urls": ["https://docs.example.com/"]}
	}`)

	cfg, err := LoadGlobalConfig(path, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogConfig.LogFormat, "absent values keep defaults")
	assert.True(t, cfg.URLEngineConfig.AllowPrivateNetworks)
	assert.Equal(t, 0, cfg.URLEngineConfig.CacheSize)
	assert.Equal(t, "test-agent", cfg.CrawlerConfig.UserAgent)
	assert.Equal(t, []string{"https://docs.example.com/"}, cfg.CrawlerConfig.SeedURLs)
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, name, `
log_config:
  log_level: warn
  log_format: json
url_engine_config:
  allowed_schemes: [http, https, ftp]
  extra_disallowed_hosts: [internal.example.com]
  extra_disallowed_networks: [203.0.113.0/24]
  max_path_length: 1024
crawler_config:
  max_depth: 2
  max_internal_pages: 50
  include_external: true
  scope:
    disallowed_hostnames: [cdn.example.com]
extractor_config:
  parse_inline_scripts: false
`)

			cfg, err := LoadGlobalConfig(path, zerolog.Nop())

			require.NoError(t, err)
			assert.Equal(t, "warn", cfg.LogConfig.LogLevel)
			assert.Equal(t, "json", cfg.LogConfig.LogFormat)
			assert.Equal(t, []string{"http", "https", "ftp"}, cfg.URLEngineConfig.AllowedSchemes)
			assert.Equal(t, []string{"internal.example.com"}, cfg.URLEngineConfig.ExtraDisallowedHosts)
			assert.Equal(t, 1024, cfg.URLEngineConfig.MaxPathLength)
			assert.Equal(t, DefaultURLEngineMaxQueryLength, cfg.URLEngineConfig.MaxQueryLength)
			assert.Equal(t, 2, cfg.CrawlerConfig.MaxDepth)
			assert.Equal(t, 50, cfg.CrawlerConfig.MaxInternalPages)
			assert.True(t, cfg.CrawlerConfig.IncludeExternal)
			assert.Equal(t, []string{"cdn.example.com"}, cfg.CrawlerConfig.Scope.DisallowedHostnames)
			assert.False(t, cfg.ExtractorConfig.ParseInlineScripts)
			assert.NoError(t, ValidateConfig(cfg))
		})
	}
}

func TestLoadGlobalConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "invalid.json", `{"log_config": {},}`)

	cfg, err := LoadGlobalConfig(path, zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON")
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid.yaml", `
log_config:
  log_level: debug
    invalid_indent: value
`)

	cfg, err := LoadGlobalConfig(path, zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to unmarshal YAML")
}

func TestGetConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnv, "")

	assert.Equal(t, "", GetConfigPath(""))

	cwdConfig := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cwdConfig, []byte(`{}`), 0644))
	assert.Equal(t, cwdConfig, GetConfigPath(""))

	yamlConfig := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlConfig, []byte(`{}`), 0644))
	assert.Equal(t, yamlConfig, GetConfigPath(""), "yaml wins over json in the same directory")

	envConfig := writeConfig(t, "env.yaml", "")
	t.Setenv(ConfigPathEnv, envConfig)
	assert.Equal(t, envConfig, GetConfigPath(""))

	flagConfig := writeConfig(t, "flag.json", "{}")
	assert.Equal(t, flagConfig, GetConfigPath(flagConfig))
	assert.Equal(t, envConfig, GetConfigPath(filepath.Join(dir, "missing.json")))
}

func TestParseConfigContent(t *testing.T) {
	cfg := &GlobalConfig{}
	require.NoError(t, parseConfigContent([]byte(`{"crawler_config": {"max_depth": 7}}`), "config.json", cfg))
	assert.Equal(t, 7, cfg.CrawlerConfig.MaxDepth)

	cfg = &GlobalConfig{}
	require.NoError(t, parseConfigContent([]byte("crawler_config:\n  max_depth: 9\n"), "config.yml", cfg))
	assert.Equal(t, 9, cfg.CrawlerConfig.MaxDepth)
}

func TestIsYAMLFile(t *testing.T) {
	tests := []struct {
		ext      string
		expected bool
	}{
		{".yaml", true},
		{".yml", true},
		{".json", false},
		{".txt", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.expected, isYAMLFile(tt.ext))
		})
	}
}

func TestURLEngineConfig_SecurityOptions(t *testing.T) {
	c := NewDefaultURLEngineConfig()
	c.AllowedSchemes = nil
	c.MaxPathLength = 0
	c.ExtraDisallowedNetworks = []string{"198.51.100.0/24"}
	c.AllowPrivateNetworks = true

	opts := c.SecurityOptions()
	assert.Equal(t, []string{"http", "https"}, opts.AllowedSchemes)
	assert.Equal(t, DefaultURLEngineMaxPathLength, opts.MaxPathLength)
	assert.Equal(t, []string{"198.51.100.0/24"}, opts.ExtraDisallowedNetworks)
	assert.True(t, opts.AllowPrivateNetworks)

	c.ExtraDisallowedNetworks[0] = "10.0.0.0/8"
	assert.Equal(t, "198.51.100.0/24", opts.ExtraDisallowedNetworks[0], "options must not alias the config")
}
