package service

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// RenderResult contains rendered HTML plus any frontmatter metadata.
type RenderResult struct {
	HTML     string                 `json:"html"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ContentService renders markdown and derives ContentStats from HTML so
// pages can be scored from raw content.
type ContentService struct {
	siteHost string
	markdown goldmark.Markdown
	logger   *logger.Logger
}

// NewContentService creates a new content service. siteURL anchors the
// internal/external link classification.
func NewContentService(siteURL string, log *logger.Logger) *ContentService {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			meta.Meta,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &ContentService{
		siteHost: hostOf(siteURL),
		markdown: md,
		logger:   log,
	}
}

// RenderMarkdown converts markdown to HTML and returns frontmatter
// metadata alongside.
func (s *ContentService) RenderMarkdown(source []byte) (*RenderResult, error) {
	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := s.markdown.Convert(source, &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	metadata := meta.Get(pctx)
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &RenderResult{
		HTML:     buf.String(),
		Metadata: metadata,
	}, nil
}

// ExtractStats parses HTML and derives the counts the scorer consumes.
// Title and description fall back to the <title> tag and the description
// meta tag when the caller does not supply them.
func (s *ContentService) ExtractStats(htmlContent, title, description, focusKeyword string) (domain.ContentStats, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return domain.ContentStats{}, fmt.Errorf("failed to parse html: %w", err)
	}

	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if description == "" {
		description, _ = doc.Find("meta[name='description']").Attr("content")
	}

	text := strings.TrimSpace(doc.Find("body").Text())

	stats := domain.ContentStats{
		Title:        title,
		Description:  description,
		Content:      text,
		FocusKeyword: focusKeyword,
		Headings: domain.HeadingCounts{
			H1: doc.Find("h1").Length(),
			H2: doc.Find("h2").Length(),
			H3: doc.Find("h3").Length(),
		},
		SentenceCount: countSentences(text),
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		alt, _ := sel.Attr("alt")
		stats.Images = append(stats.Images, domain.ImageStat{Alt: strings.TrimSpace(alt)})
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" || strings.HasPrefix(href, "mailto:") {
			return
		}

		if s.isInternal(href) {
			stats.InternalLinks++
		} else if strings.HasPrefix(href, "http") {
			stats.ExternalLinks++
		}
	})

	s.logger.Debug("Content stats extracted: %d words, %d images, %d internal links",
		len(strings.Fields(text)), len(stats.Images), stats.InternalLinks)
	return stats, nil
}

// ExtractFromMarkdown renders markdown and extracts stats from the
// result, filling title and description from frontmatter when present.
func (s *ContentService) ExtractFromMarkdown(source []byte, focusKeyword string) (domain.ContentStats, error) {
	rendered, err := s.RenderMarkdown(source)
	if err != nil {
		return domain.ContentStats{}, err
	}

	title := stringFromMeta(rendered.Metadata, "title")
	description := stringFromMeta(rendered.Metadata, "description")
	if focusKeyword == "" {
		focusKeyword = stringFromMeta(rendered.Metadata, "focus_keyword")
	}

	return s.ExtractStats(rendered.HTML, title, description, focusKeyword)
}

func (s *ContentService) isInternal(href string) bool {
	if strings.HasPrefix(href, "/") {
		return true
	}
	if host := hostOf(href); host != "" && host == s.siteHost {
		return true
	}
	return false
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	return count
}

func stringFromMeta(metadata map[string]interface{}, key string) string {
	if value, ok := metadata[key]; ok {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return ""
}
