package extractor

import "github.com/aleister1102/doccrawler/internal/urlhandler"

// TagScript marks links found by jsluice inside JavaScript rather than in markup.
const TagScript = "script-body"

// Link is one reference discovered on a page, already run through the URL engine.
type Link struct {
	// Raw is the reference exactly as written in the page.
	Raw string
	// Tag and Attribute name where it was found, e.g. "a"/"href". For
	// JavaScript matches Tag is TagScript and Attribute is the jsluice match type.
	Tag       string
	Attribute string
	Info      *urlhandler.URLInfo
}

// AnalysisResult holds the result of one analyzer pass
type AnalysisResult struct {
	Links          []Link
	ProcessedCount int
}
