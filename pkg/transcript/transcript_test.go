package transcript_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/infuse/internal/models"
	"github.com/xhad/infuse/pkg/transcript"
)

type fakeChat struct {
	history      []models.QARecord
	historyErr   error
	askErr       error
	askAnswer    *models.Answer
	historyCalls int
	askCalls     int
	onAsk        func()
}

func (f *fakeChat) Ask(ctx context.Context, question, fileID string) (*models.Answer, error) {
	f.askCalls++
	if f.onAsk != nil {
		f.onAsk()
	}
	if f.askErr != nil {
		return nil, f.askErr
	}
	if f.askAnswer != nil {
		return f.askAnswer, nil
	}
	return &models.Answer{Answer: "42"}, nil
}

func (f *fakeChat) History(ctx context.Context) ([]models.QARecord, error) {
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	out := make([]models.QARecord, len(f.history))
	copy(out, f.history)
	return out, nil
}

func (f *fakeChat) DeleteMessage(ctx context.Context, messageID string) error {
	for i, rec := range f.history {
		if rec.MessageID == messageID {
			f.history = append(f.history[:i], f.history[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeChat) DeleteAll(ctx context.Context) error {
	f.history = nil
	return nil
}

func ts(day, hour, min int) time.Time {
	return time.Date(2024, 1, day, hour, min, 0, 0, time.UTC)
}

func record(id string, t time.Time) models.QARecord {
	return models.QARecord{
		MessageID: id,
		Question:  "q " + id,
		Answer:    "a " + id,
		Timestamp: t,
	}
}

func TestMessagesExpandsAndOrders(t *testing.T) {
	// Server returns records out of order; the transcript sorts by
	// timestamp ascending before expanding.
	remote := &fakeChat{history: []models.QARecord{
		record("m2", ts(2, 10, 0)),
		record("m1", ts(1, 9, 0)),
		record("m3", ts(3, 11, 0)),
	}}
	s := transcript.New(remote)

	msgs, err := s.Messages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 6)

	wantIDs := []string{"m1-q", "m1-a", "m2-q", "m2-a", "m3-q", "m3-a"}
	for i, id := range wantIDs {
		assert.Equal(t, id, msgs[i].ID)
	}

	// Strict user/assistant alternation within each derived pair,
	// non-decreasing timestamps throughout
	for i, msg := range msgs {
		if i%2 == 0 {
			assert.Equal(t, models.RoleUser, msg.Role)
		} else {
			assert.Equal(t, models.RoleAssistant, msg.Role)
			assert.Equal(t, msgs[i-1].Timestamp, msg.Timestamp, "pair shares the record timestamp")
		}
		if i > 0 {
			assert.False(t, msg.Timestamp.Before(msgs[i-1].Timestamp))
		}
	}
}

func TestMessagesEqualTimestampsKeepArrivalOrder(t *testing.T) {
	same := ts(1, 12, 0)
	remote := &fakeChat{history: []models.QARecord{
		record("first", same),
		record("second", same),
		record("third", same),
	}}
	s := transcript.New(remote)

	msgs, err := s.Messages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 6)
	assert.Equal(t, "first-q", msgs[0].ID)
	assert.Equal(t, "second-q", msgs[2].ID)
	assert.Equal(t, "third-q", msgs[4].ID)
}

func TestMessagesUsesCacheUntilInvalidated(t *testing.T) {
	remote := &fakeChat{history: []models.QARecord{record("m1", ts(1, 9, 0))}}
	s := transcript.New(remote)

	_, err := s.Messages(context.Background())
	require.NoError(t, err)
	_, err = s.Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, remote.historyCalls, "second read served from cache")

	s.Invalidate()
	_, err = s.Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, remote.historyCalls)
}

func TestAskValidation(t *testing.T) {
	remote := &fakeChat{}
	s := transcript.New(remote)

	_, err := s.Ask(context.Background(), "   ", "f1")
	assert.ErrorIs(t, err, transcript.ErrEmptyQuestion)

	_, err = s.Ask(context.Background(), "what is this?", "")
	assert.ErrorIs(t, err, transcript.ErrNoFileSelected)

	assert.Zero(t, remote.askCalls, "no network call on validation failure")
	assert.False(t, s.Pending())
}

func TestAskSuccessInvalidatesCache(t *testing.T) {
	remote := &fakeChat{history: []models.QARecord{record("m1", ts(1, 9, 0))}}
	s := transcript.New(remote)

	_, err := s.Messages(context.Background())
	require.NoError(t, err)

	remote.history = append(remote.history, record("m2", ts(1, 10, 0)))
	ans, err := s.Ask(context.Background(), "q m2", "f1")
	require.NoError(t, err)
	assert.Equal(t, "42", ans.Answer)

	msgs, err := s.Messages(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 4, "new exchange visible through the next read")
	assert.Equal(t, 2, remote.historyCalls)
}

func TestAskFailureKeepsCache(t *testing.T) {
	remote := &fakeChat{history: []models.QARecord{record("m1", ts(1, 9, 0))}}
	s := transcript.New(remote)

	_, err := s.Messages(context.Background())
	require.NoError(t, err)

	remote.askErr = fmt.Errorf("model unavailable")
	_, err = s.Ask(context.Background(), "anything", "f1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
	assert.False(t, s.Pending(), "pending clears after failure")

	_, err = s.Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, remote.historyCalls, "cache untouched, nothing changed server-side")
}

func TestPendingDuringAsk(t *testing.T) {
	remote := &fakeChat{}
	s := transcript.New(remote)

	var pendingDuringCall bool
	remote.onAsk = func() { pendingDuringCall = s.Pending() }

	_, err := s.Ask(context.Background(), "question", "f1")
	require.NoError(t, err)
	assert.True(t, pendingDuringCall, "pending is true while the call is in flight")
	assert.False(t, s.Pending())
}

func TestDeleteMessageInvalidates(t *testing.T) {
	remote := &fakeChat{history: []models.QARecord{
		record("m1", ts(1, 9, 0)),
		record("m2", ts(1, 10, 0)),
	}}
	s := transcript.New(remote)

	_, err := s.Messages(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.DeleteMessage(context.Background(), "m1"))

	msgs, err := s.Messages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2-q", msgs[0].ID)
}

func TestDeleteAllThenEmptyTranscript(t *testing.T) {
	remote := &fakeChat{history: []models.QARecord{record("m1", ts(1, 9, 0))}}
	s := transcript.New(remote)

	_, err := s.Messages(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.DeleteAll(context.Background()))

	msgs, err := s.Messages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
