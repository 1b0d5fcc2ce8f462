package domain

// ImageStat describes one image found in the analyzed content.
type ImageStat struct {
	Alt string `json:"alt"`
}

// HeadingCounts holds the heading tag counts for a piece of content.
type HeadingCounts struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
}

// ContentStats is the scorer's input: page metadata plus content counts
// supplied by the caller (or derived by the content extractor).
type ContentStats struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Content       string        `json:"content"`
	FocusKeyword  string        `json:"focus_keyword"`
	Images        []ImageStat   `json:"images"`
	InternalLinks int           `json:"internal_links"`
	ExternalLinks int           `json:"external_links"`
	Headings      HeadingCounts `json:"headings"`
	// SentenceCount is derived but not weighted by the scorer.
	SentenceCount int `json:"sentence_count,omitempty"`
}

// ScoreResult is the scorer's output: seven sub-scores, the weighted
// overall score, and the ordered issue and suggestion lists.
type ScoreResult struct {
	TitleScore       int      `json:"title_score"`
	DescriptionScore int      `json:"description_score"`
	ContentScore     int      `json:"content_score"`
	ReadabilityScore int      `json:"readability_score"`
	KeywordScore     int      `json:"keyword_score"`
	LinkScore        int      `json:"link_score"`
	ImageScore       int      `json:"image_score"`
	OverallScore     int      `json:"overall_score"`
	Issues           []Issue  `json:"issues"`
	Suggestions      []string `json:"suggestions"`
}

// LinkSuggestion proposes a new internal link between two pages.
type LinkSuggestion struct {
	SourceURL string `json:"source_url"`
	TargetURL string `json:"target_url"`
	Reason    string `json:"reason"`
}

// PageLinkCount pairs a page URL with its inbound internal link count.
type PageLinkCount struct {
	URL          string `json:"url"`
	InboundLinks int    `json:"inbound_links"`
}

// SubmitResult is the outcome of an indexing notification. Failures are
// reported here rather than as errors; submission is best effort.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
