package transcript

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xhad/infuse/internal/models"
	"github.com/xhad/infuse/internal/types"
)

var (
	ErrEmptyQuestion  = errors.New("question is empty")
	ErrNoFileSelected = errors.New("no file selected")
)

// Synchronizer turns the server's flat, unordered history collection
// into an ordered conversation view. Mutations follow an
// invalidate-and-refetch policy: the cache is discarded on success and
// the next read recomputes from a fresh fetch.
type Synchronizer struct {
	remote types.ChatService

	mu      sync.Mutex
	records []models.QARecord
	cached  bool
	pending bool
}

func New(remote types.ChatService) *Synchronizer {
	return &Synchronizer{remote: remote}
}

// fetch loads the history collection unless a valid cache exists, and
// returns a copy of the records.
func (s *Synchronizer) fetch(ctx context.Context) ([]models.QARecord, error) {
	s.mu.Lock()
	if s.cached {
		out := make([]models.QARecord, len(s.records))
		copy(out, s.records)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	records, err := s.remote.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chat history: %w", err)
	}

	s.mu.Lock()
	s.records = records
	s.cached = true
	s.mu.Unlock()

	out := make([]models.QARecord, len(records))
	copy(out, records)
	return out, nil
}

// Records returns the raw history records, fetching if the cache was
// invalidated. Server order is preserved.
func (s *Synchronizer) Records(ctx context.Context) ([]models.QARecord, error) {
	return s.fetch(ctx)
}

// Messages returns the full conversation as renderable messages,
// ordered by timestamp ascending and expanded question-then-answer.
func (s *Synchronizer) Messages(ctx context.Context) ([]models.ChatMessage, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Expand(records), nil
}

// Expand sorts records by timestamp ascending and splits each one into
// its user and assistant messages. Timestamps are untrusted sort keys
// supplied by the server; equal timestamps keep arrival order.
func Expand(records []models.QARecord) []models.ChatMessage {
	sorted := make([]models.QARecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	msgs := make([]models.ChatMessage, 0, 2*len(sorted))
	for _, rec := range sorted {
		msgs = append(msgs,
			models.ChatMessage{
				ID:        rec.MessageID + "-q",
				Role:      models.RoleUser,
				Content:   rec.Question,
				Timestamp: rec.Timestamp,
			},
			models.ChatMessage{
				ID:        rec.MessageID + "-a",
				Role:      models.RoleAssistant,
				Content:   rec.Answer,
				Timestamp: rec.Timestamp,
				Sources:   rec.Sources,
			})
	}
	return msgs
}

// Ask submits a question against a file. Validation happens before any
// network call. On success the cache is invalidated so the next read
// picks up the stored exchange; on failure nothing changed server-side
// and the cache is left alone.
func (s *Synchronizer) Ask(ctx context.Context, question, fileID string) (*models.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if fileID == "" {
		return nil, ErrNoFileSelected
	}

	s.setPending(true)
	defer s.setPending(false)

	ans, err := s.remote.Ask(ctx, question, fileID)
	if err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}

	s.Invalidate()
	return ans, nil
}

// Pending reports whether an ask call is in flight, so the view can
// render a provisional indicator without fabricating message content.
func (s *Synchronizer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Synchronizer) setPending(v bool) {
	s.mu.Lock()
	s.pending = v
	s.mu.Unlock()
}

// Invalidate discards the cached history so the next read refetches.
func (s *Synchronizer) Invalidate() {
	s.mu.Lock()
	s.records = nil
	s.cached = false
	s.mu.Unlock()
}

func (s *Synchronizer) DeleteMessage(ctx context.Context, messageID string) error {
	if err := s.remote.DeleteMessage(ctx, messageID); err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	s.Invalidate()
	return nil
}

func (s *Synchronizer) DeleteAll(ctx context.Context) error {
	if err := s.remote.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	s.Invalidate()
	return nil
}
