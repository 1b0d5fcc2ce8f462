package service

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"seoengine/internal/domain"
)

// Sub-score weights for the overall page score.
const (
	weightTitle       = 0.15
	weightDescription = 0.15
	weightContent     = 0.25
	weightReadability = 0.10
	weightKeyword     = 0.15
	weightLink        = 0.10
	weightImage       = 0.10
)

// genericSuggestions are appended to every scoring result.
var genericSuggestions = []string{
	"Include the focus keyword in the URL slug",
	"Add schema markup (structured data) to help search engines understand the page",
	"Use descriptive filenames for images before uploading",
	"Keep URLs short and readable",
}

// Scorer evaluates page content against weighted SEO heuristics. It is
// pure: no I/O, deterministic output for a given input. Persisting a
// result is the caller's responsibility.
type Scorer struct{}

// NewScorer creates a new content scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the seven sub-scores, the weighted overall score and the
// ordered issue list for the given content stats.
func (s *Scorer) Score(stats domain.ContentStats) domain.ScoreResult {
	var issues []domain.Issue

	wordCount := len(strings.Fields(stats.Content))

	titleScore := s.scoreTitle(stats, &issues)
	descriptionScore := s.scoreDescription(stats, &issues)
	contentScore := s.scoreContent(stats, wordCount, &issues)
	readabilityScore := s.scoreReadability(stats, wordCount)
	keywordScore := s.scoreKeyword(stats, wordCount, &issues)
	linkScore := s.scoreLinks(stats, &issues)
	imageScore := s.scoreImages(stats, &issues)
	s.checkHeadings(stats, &issues)

	overall := math.Round(
		float64(titleScore)*weightTitle +
			float64(descriptionScore)*weightDescription +
			float64(contentScore)*weightContent +
			float64(readabilityScore)*weightReadability +
			float64(keywordScore)*weightKeyword +
			float64(linkScore)*weightLink +
			float64(imageScore)*weightImage)

	suggestions := make([]string, len(genericSuggestions))
	copy(suggestions, genericSuggestions)

	return domain.ScoreResult{
		TitleScore:       titleScore,
		DescriptionScore: descriptionScore,
		ContentScore:     contentScore,
		ReadabilityScore: readabilityScore,
		KeywordScore:     keywordScore,
		LinkScore:        linkScore,
		ImageScore:       imageScore,
		OverallScore:     clampScore(int(overall)),
		Issues:           issues,
		Suggestions:      suggestions,
	}
}

func (s *Scorer) scoreTitle(stats domain.ContentStats, issues *[]domain.Issue) int {
	if stats.Title == "" {
		*issues = append(*issues, domain.Issue{
			Type:       "title",
			Severity:   domain.SeverityError,
			Message:    "Missing title tag",
			Suggestion: "Add a unique title between 50 and 60 characters",
		})
		return 0
	}

	// Length bands are defined in characters, not bytes
	length := utf8.RuneCountInString(stats.Title)
	var score int
	switch {
	case length >= 50 && length <= 60:
		score = 100
	case length >= 40 && length <= 70:
		score = 80
	case length >= 30 && length <= 80:
		score = 60
	default:
		score = 40
	}

	if stats.FocusKeyword != "" && !containsFold(stats.Title, stats.FocusKeyword) {
		score -= 20
		*issues = append(*issues, domain.Issue{
			Type:       "title",
			Severity:   domain.SeverityError,
			Message:    "Focus keyword not found in title",
			Suggestion: "Include the focus keyword near the beginning of the title",
		})
	}

	return clampScore(score)
}

func (s *Scorer) scoreDescription(stats domain.ContentStats, issues *[]domain.Issue) int {
	if stats.Description == "" {
		*issues = append(*issues, domain.Issue{
			Type:       "description",
			Severity:   domain.SeverityError,
			Message:    "Missing meta description",
			Suggestion: "Write a meta description between 150 and 160 characters",
		})
		return 0
	}

	length := utf8.RuneCountInString(stats.Description)
	var score int
	switch {
	case length >= 150 && length <= 160:
		score = 100
	case length >= 120 && length <= 170:
		score = 80
	case length >= 100 && length <= 200:
		score = 60
	default:
		score = 40
	}

	if stats.FocusKeyword != "" && !containsFold(stats.Description, stats.FocusKeyword) {
		score -= 15
		*issues = append(*issues, domain.Issue{
			Type:       "description",
			Severity:   domain.SeverityWarning,
			Message:    "Focus keyword not found in meta description",
			Suggestion: "Mention the focus keyword once in the description",
		})
	}

	return clampScore(score)
}

func (s *Scorer) scoreContent(stats domain.ContentStats, wordCount int, issues *[]domain.Issue) int {
	if wordCount < 300 {
		*issues = append(*issues, domain.Issue{
			Type:       "content",
			Severity:   domain.SeverityError,
			Message:    "Content too thin",
			Suggestion: "Aim for at least 300 words; in-depth pages of 1500+ words rank best",
		})
	}

	if stats.Content == "" {
		return 0
	}

	switch {
	case wordCount >= 1500:
		return 100
	case wordCount >= 1000:
		return 85
	case wordCount >= 600:
		return 70
	case wordCount >= 300:
		return 50
	default:
		return 30
	}
}

// scoreReadability derives a band from mean word length. Sentence count
// is collected by the extractor but intentionally unweighted here.
func (s *Scorer) scoreReadability(stats domain.ContentStats, wordCount int) int {
	if wordCount == 0 {
		return 0
	}

	meanWordLength := float64(utf8.RuneCountInString(stats.Content)) / float64(wordCount)
	switch {
	case meanWordLength < 5:
		return 90
	case meanWordLength < 6:
		return 80
	default:
		return 60
	}
}

func (s *Scorer) scoreKeyword(stats domain.ContentStats, wordCount int, issues *[]domain.Issue) int {
	if stats.FocusKeyword == "" {
		*issues = append(*issues, domain.Issue{
			Type:       "keyword",
			Severity:   domain.SeverityInfo,
			Message:    "No focus keyword set",
			Suggestion: "Set a focus keyword so keyword usage can be scored",
		})
		return 0
	}
	if wordCount == 0 {
		return 0
	}

	content := strings.ToLower(stats.Content)
	keyword := strings.ToLower(stats.FocusKeyword)
	occurrences := strings.Count(content, keyword)
	density := float64(occurrences) / float64(wordCount) * 100

	var score int
	switch {
	case density >= 0.5 && density <= 2.5:
		score = 100
	case density > 2.5:
		score = 50
		*issues = append(*issues, domain.Issue{
			Type:       "keyword",
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("Keyword stuffing detected (density %.1f%%)", density),
			Suggestion: "Reduce keyword usage to between 0.5% and 2.5% of the content",
		})
	default:
		score = 60
		*issues = append(*issues, domain.Issue{
			Type:       "keyword",
			Severity:   domain.SeverityWarning,
			Message:    "Keyword density is low",
			Suggestion: "Use the focus keyword more often, naturally, throughout the content",
		})
	}

	firstParagraph := content
	if runes := []rune(firstParagraph); len(runes) > 300 {
		firstParagraph = string(runes[:300])
	}
	if !strings.Contains(firstParagraph, keyword) {
		score -= 10
		*issues = append(*issues, domain.Issue{
			Type:       "keyword",
			Severity:   domain.SeverityWarning,
			Message:    "Focus keyword not found in the first paragraph",
			Suggestion: "Mention the focus keyword within the first 300 characters",
		})
	}

	return clampScore(score)
}

func (s *Scorer) scoreLinks(stats domain.ContentStats, issues *[]domain.Issue) int {
	score := 50

	switch {
	case stats.InternalLinks >= 3:
		score += 25
	case stats.InternalLinks >= 1:
		score += 15
	default:
		*issues = append(*issues, domain.Issue{
			Type:       "links",
			Severity:   domain.SeverityWarning,
			Message:    "No internal links found",
			Suggestion: "Link to at least 3 related pages on your site",
		})
	}

	if stats.ExternalLinks >= 1 && stats.ExternalLinks <= 3 {
		score += 25
	} else if stats.ExternalLinks > 3 {
		score += 15
	}

	return clampScore(score)
}

func (s *Scorer) scoreImages(stats domain.ContentStats, issues *[]domain.Issue) int {
	total := len(stats.Images)
	if total == 0 {
		*issues = append(*issues, domain.Issue{
			Type:       "images",
			Severity:   domain.SeverityInfo,
			Message:    "No images found",
			Suggestion: "Add at least one relevant image with descriptive alt text",
		})
		return 50
	}

	withAlt := 0
	for _, img := range stats.Images {
		if img.Alt != "" {
			withAlt++
		}
	}

	if missing := total - withAlt; missing > 0 {
		*issues = append(*issues, domain.Issue{
			Type:       "images",
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("%d image(s) missing alt text", missing),
			Suggestion: "Add descriptive alt text to every image",
		})
	}

	return clampScore(int(math.Round(float64(withAlt) / float64(total) * 100)))
}

// checkHeadings appends heading issues; heading structure does not feed a
// numeric sub-score.
func (s *Scorer) checkHeadings(stats domain.ContentStats, issues *[]domain.Issue) {
	if stats.Headings.H1 == 0 {
		*issues = append(*issues, domain.Issue{
			Type:       "headings",
			Severity:   domain.SeverityError,
			Message:    "Missing H1 heading",
			Suggestion: "Add exactly one H1 heading containing the focus keyword",
		})
	} else if stats.Headings.H1 > 1 {
		*issues = append(*issues, domain.Issue{
			Type:       "headings",
			Severity:   domain.SeverityWarning,
			Message:    "Multiple H1 headings found",
			Suggestion: "Use a single H1 and demote the others to H2",
		})
	}

	if stats.Headings.H2 == 0 {
		*issues = append(*issues, domain.Issue{
			Type:       "headings",
			Severity:   domain.SeverityWarning,
			Message:    "No H2 headings found",
			Suggestion: "Break the content into sections with H2 headings",
		})
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
