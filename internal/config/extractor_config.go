package config

// ExtractorConfig defines configuration for link extraction
type ExtractorConfig struct {
	ParseInlineScripts bool `json:"parse_inline_scripts" yaml:"parse_inline_scripts"`
	MaxLinksPerPage    int  `json:"max_links_per_page,omitempty" yaml:"max_links_per_page,omitempty" validate:"min=0"`
}

// NewDefaultExtractorConfig creates default extractor configuration
func NewDefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ParseInlineScripts: true,
		MaxLinksPerPage:    DefaultExtractorMaxLinksPerPage,
	}
}
