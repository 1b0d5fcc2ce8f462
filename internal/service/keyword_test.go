package service

import (
	"context"
	"testing"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

type mockKeywordRepository struct {
	keywords map[int]*domain.Keyword
	history  []domain.KeywordHistory
	nextID   int
}

func newMockKeywordRepository() *mockKeywordRepository {
	return &mockKeywordRepository{keywords: make(map[int]*domain.Keyword), nextID: 1}
}

func (m *mockKeywordRepository) Create(ctx context.Context, keyword *domain.Keyword) error {
	keyword.ID = m.nextID
	m.nextID++
	copied := *keyword
	m.keywords[keyword.ID] = &copied
	return nil
}

func (m *mockKeywordRepository) GetByID(ctx context.Context, id int) (*domain.Keyword, error) {
	keyword, ok := m.keywords[id]
	if !ok {
		return nil, nil
	}
	copied := *keyword
	return &copied, nil
}

func (m *mockKeywordRepository) List(ctx context.Context) ([]domain.Keyword, error) {
	var out []domain.Keyword
	for _, keyword := range m.keywords {
		out = append(out, *keyword)
	}
	return out, nil
}

func (m *mockKeywordRepository) UpdatePositions(ctx context.Context, keyword *domain.Keyword) error {
	copied := *keyword
	m.keywords[keyword.ID] = &copied
	return nil
}

func (m *mockKeywordRepository) AddHistory(ctx context.Context, history *domain.KeywordHistory) error {
	history.ID = len(m.history) + 1
	m.history = append(m.history, *history)
	return nil
}

func (m *mockKeywordRepository) History(ctx context.Context, keywordID, days int) ([]domain.KeywordHistory, error) {
	var out []domain.KeywordHistory
	for _, h := range m.history {
		if h.KeywordID == keywordID {
			out = append(out, h)
		}
	}
	return out, nil
}

func newKeywordService(repo KeywordRepository) *KeywordService {
	return NewKeywordService(repo, logger.New(logger.Config{Level: "error"}))
}

func TestKeywordService_Track(t *testing.T) {
	repo := newMockKeywordRepository()
	svc := newKeywordService(repo)

	keyword, err := svc.Track(context.Background(), "iptv subscription", "/plans")
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if keyword.ID == 0 || !keyword.TrackingEnabled {
		t.Errorf("keyword not initialized: %+v", keyword)
	}

	if _, err := svc.Track(context.Background(), "   ", ""); !IsValidation(err) {
		t.Errorf("empty phrase error = %v, want validation error", err)
	}
}

func TestKeywordService_RecordPositionSequence(t *testing.T) {
	repo := newMockKeywordRepository()
	svc := newKeywordService(repo)

	keyword, err := svc.Track(context.Background(), "fire stick deals", "/deals")
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	positions := []int{14, 9, 12, 7, 11}
	var updated *domain.Keyword
	for _, pos := range positions {
		updated, err = svc.RecordPosition(context.Background(), keyword.ID, pos, "/deals", nil)
		if err != nil {
			t.Fatalf("RecordPosition(%d) error = %v", pos, err)
		}
	}

	if updated.CurrentPosition != 11 {
		t.Errorf("CurrentPosition = %d, want 11", updated.CurrentPosition)
	}
	if updated.PreviousPosition != 7 {
		t.Errorf("PreviousPosition = %d, want 7", updated.PreviousPosition)
	}
	if updated.PositionChange != -4 {
		t.Errorf("PositionChange = %d, want -4", updated.PositionChange)
	}
	// Best position is the minimum ever recorded, even after later drops.
	if updated.BestPosition != 7 {
		t.Errorf("BestPosition = %d, want 7", updated.BestPosition)
	}
	if updated.LastCheckedAt == nil {
		t.Error("LastCheckedAt not stamped")
	}

	history, err := svc.History(context.Background(), keyword.ID, 30)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != len(positions) {
		t.Fatalf("got %d history rows, want %d", len(history), len(positions))
	}
	for i, pos := range positions {
		if history[i].Position != pos {
			t.Errorf("history[%d].Position = %d, want %d", i, history[i].Position, pos)
		}
	}
}

func TestKeywordService_RecordPositionFirstObservation(t *testing.T) {
	repo := newMockKeywordRepository()
	svc := newKeywordService(repo)

	keyword, _ := svc.Track(context.Background(), "iptv box", "/boxes")
	updated, err := svc.RecordPosition(context.Background(), keyword.ID, 23, "/boxes", []string{"sitelinks"})
	if err != nil {
		t.Fatalf("RecordPosition() error = %v", err)
	}

	if updated.PreviousPosition != 0 {
		t.Errorf("PreviousPosition = %d, want 0", updated.PreviousPosition)
	}
	if updated.PositionChange != 0 {
		t.Errorf("PositionChange = %d, want 0 on first observation", updated.PositionChange)
	}
	if updated.BestPosition != 23 {
		t.Errorf("BestPosition = %d, want 23", updated.BestPosition)
	}
}

func TestKeywordService_RecordPositionValidation(t *testing.T) {
	repo := newMockKeywordRepository()
	svc := newKeywordService(repo)

	if _, err := svc.RecordPosition(context.Background(), 999, 5, "", nil); !IsValidation(err) {
		t.Errorf("unknown keyword error = %v, want validation error", err)
	}

	keyword, _ := svc.Track(context.Background(), "iptv", "")
	if _, err := svc.RecordPosition(context.Background(), keyword.ID, 0, "", nil); !IsValidation(err) {
		t.Errorf("zero position error = %v, want validation error", err)
	}
}

func TestKeywordService_HistoryDefaultWindow(t *testing.T) {
	repo := newMockKeywordRepository()
	svc := newKeywordService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	keyword, _ := svc.Track(context.Background(), "iptv", "")
	if _, err := svc.RecordPosition(context.Background(), keyword.ID, 3, "", nil); err != nil {
		t.Fatalf("RecordPosition() error = %v", err)
	}

	history, err := svc.History(context.Background(), keyword.ID, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Errorf("got %d rows, want 1", len(history))
	}
	if !history[0].ObservedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("ObservedAt = %v", history[0].ObservedAt)
	}

	if _, err := svc.History(context.Background(), 999, 0); !IsValidation(err) {
		t.Errorf("unknown keyword error = %v, want validation error", err)
	}
}
