package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/doccrawler/internal/common/errorwrapper"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

// linkSelector covers every element whose attribute may point at another resource.
const linkSelector = "a[href], area[href], link[href], script[src], img[src], iframe[src], frame[src], " +
	"source[src], form[action], object[data], embed[src]"

var linkAttributes = map[string]string{
	"a":      "href",
	"area":   "href",
	"link":   "href",
	"script": "src",
	"img":    "src",
	"iframe": "src",
	"frame":  "src",
	"source": "src",
	"embed":  "src",
	"form":   "action",
	"object": "data",
}

// HTMLExtractor discovers links in markup
type HTMLExtractor struct {
	logger   zerolog.Logger
	resolver *LinkResolver
	scripts  *JSluiceAnalyzer
}

// NewHTMLExtractor creates a new HTML extractor. scripts may be nil to skip
// inline <script> bodies.
func NewHTMLExtractor(resolver *LinkResolver, scripts *JSluiceAnalyzer, logger zerolog.Logger) *HTMLExtractor {
	return &HTMLExtractor{
		logger:   logger.With().Str("component", "HTMLExtractor").Logger(),
		resolver: resolver,
		scripts:  scripts,
	}
}

// Extract parses body and returns the links it references, resolved against
// page or against the document's <base href> when one is present.
func (he *HTMLExtractor) Extract(page *urlhandler.URLInfo, body []byte, seen map[string]struct{}) (AnalysisResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return AnalysisResult{}, errorwrapper.WrapError(err, "failed to parse HTML content")
	}

	base := he.documentBase(doc, page)
	var result AnalysisResult

	add := func(raw, tag, attr string) {
		result.ProcessedCount++
		info := he.resolver.Resolve(raw, base)
		if info == nil {
			return
		}
		if _, exists := seen[info.Key()]; exists {
			return
		}
		seen[info.Key()] = struct{}{}
		result.Links = append(result.Links, Link{Raw: raw, Tag: tag, Attribute: attr, Info: info})
	}

	doc.Find(linkSelector).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		attr, ok := linkAttributes[tag]
		if !ok {
			return
		}
		if value, exists := s.Attr(attr); exists && strings.TrimSpace(value) != "" {
			add(value, tag, attr)
		}
	})

	doc.Find("img[srcset], source[srcset]").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		for _, raw := range parseSrcsetURLs(s.AttrOr("srcset", "")) {
			add(raw, tag, "srcset")
		}
	})

	if he.scripts != nil {
		doc.Find("script").Each(func(_ int, s *goquery.Selection) {
			if _, external := s.Attr("src"); external {
				return
			}
			if !isJavaScriptType(s.AttrOr("type", "")) {
				return
			}
			inline := he.scripts.AnalyzeJavaScript([]byte(s.Text()), base, seen)
			result.Links = append(result.Links, inline.Links...)
			result.ProcessedCount += inline.ProcessedCount
		})
	}

	he.logger.Debug().
		Str("source_url", page.String()).
		Int("link_count", len(result.Links)).
		Msg("Extracted links from HTML")
	return result, nil
}

// documentBase honours <base href>; an unusable base element is ignored.
func (he *HTMLExtractor) documentBase(doc *goquery.Document, page *urlhandler.URLInfo) *urlhandler.URLInfo {
	href, exists := doc.Find("base[href]").First().Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return page
	}
	if base := he.resolver.Resolve(href, page); base != nil {
		return base
	}
	he.logger.Debug().Str("base_href", href).Msg("Ignoring unusable <base href>")
	return page
}

// parseSrcsetURLs parses URLs from a srcset attribute, dropping the size descriptors
func parseSrcsetURLs(srcset string) []string {
	var urls []string
	for _, part := range strings.Split(srcset, ",") {
		if fields := strings.Fields(part); len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

func isJavaScriptType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "module", "text/javascript", "application/javascript", "application/ecmascript", "text/ecmascript":
		return true
	default:
		return false
	}
}
