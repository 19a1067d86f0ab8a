package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// URL Engine Defaults
	DefaultURLEngineMaxPathLength  = 2048
	DefaultURLEngineMaxQueryLength = 2048
	DefaultURLEngineCacheSize      = 10000

	// Crawler Defaults
	DefaultCrawlerUserAgent             = "doccrawler/1.0"
	DefaultCrawlerRequestTimeoutSecs    = 20
	DefaultCrawlerMaxConcurrentRequests = 10
	DefaultCrawlerMaxDepth              = 5
	DefaultCrawlerMaxInternalPages      = 1000
	DefaultCrawlerRespectRobotsTxt      = true

	// Extractor Defaults
	DefaultExtractorMaxLinksPerPage = 5000

	// Maximum config file size accepted by LoadGlobalConfig
	maxConfigFileSize = 10 * 1024 * 1024
)

// DefaultAllowedSchemes are the schemes accepted when url_engine_config omits them.
var DefaultAllowedSchemes = []string{"http", "https"}

// DefaultDisallowedFileExtensions lists binary assets the crawler never fetches.
var DefaultDisallowedFileExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
	".pdf", ".zip", ".gz", ".tar", ".mp4", ".mp3", ".woff", ".woff2", ".ttf",
}
