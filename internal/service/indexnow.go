package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// indexNowPayload is the request body of the indexing API.
type indexNowPayload struct {
	Host    string   `json:"host"`
	Key     string   `json:"key"`
	URLList []string `json:"urlList"`
}

// IndexNowService notifies the IndexNow API about new or changed URLs.
// Submission is best effort: every failure comes back as a structured
// result, never as an error, so page updates are never blocked by it.
type IndexNowService struct {
	client   *http.Client
	pages    PageRepository
	endpoint string
	key      string
	host     string
	logger   *logger.Logger
	now      func() time.Time
}

// NewIndexNowService creates a new indexing notifier. An empty key leaves
// the service in a degraded state where every submit reports failure.
func NewIndexNowService(pages PageRepository, endpoint, key, siteURL string, log *logger.Logger) *IndexNowService {
	return &IndexNowService{
		client:   &http.Client{Timeout: 10 * time.Second},
		pages:    pages,
		endpoint: endpoint,
		key:      key,
		host:     hostOf(siteURL),
		logger:   log,
		now:      time.Now,
	}
}

// Submit posts the given URLs to the indexing endpoint. HTTP 200 and 202
// count as accepted; on acceptance every submitted page is stamped.
func (s *IndexNowService) Submit(ctx context.Context, urls []string) domain.SubmitResult {
	if s.key == "" || s.host == "" {
		return domain.SubmitResult{Success: false, Message: "indexing is not configured"}
	}
	if len(urls) == 0 {
		return domain.SubmitResult{Success: false, Message: "no urls to submit"}
	}

	payload, err := json.Marshal(indexNowPayload{
		Host:    s.host,
		Key:     s.key,
		URLList: urls,
	})
	if err != nil {
		return domain.SubmitResult{Success: false, Message: fmt.Sprintf("failed to encode payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.SubmitResult{Success: false, Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("Indexing submission failed: %v", err)
		return domain.SubmitResult{Success: false, Message: fmt.Sprintf("indexing request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		s.logger.Warn("Indexing endpoint returned %d for %d urls", resp.StatusCode, len(urls))
		return domain.SubmitResult{Success: false, Message: fmt.Sprintf("indexing endpoint returned %d", resp.StatusCode)}
	}

	if err := s.pages.MarkSubmitted(ctx, urls, s.now()); err != nil {
		// The external call succeeded; the stamp failure is logged but the
		// caller still gets a success result.
		s.logger.Error("Failed to stamp submitted pages: %v", err)
	}

	s.logger.Info("Submitted %d urls for indexing", len(urls))
	return domain.SubmitResult{Success: true, Message: fmt.Sprintf("submitted %d urls", len(urls))}
}
