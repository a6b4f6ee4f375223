package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/internal/infrastructure/outbox"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendHTML(_ int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestOutbox(t *testing.T) *outbox.Store {
	t.Helper()
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNotifierDelivers(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, newTestOutbox(t), 42, zap.NewNop())

	require.NoError(t, notifier.SendReminder(domain.UpcomingPayment{
		ProjectID:     "web",
		ProjectName:   "Web shop",
		PaymentDate:   "2025-07-20",
		PaymentAmount: "120",
		DaysLeft:      2,
		Details:       "renewal",
	}))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Web shop")
	assert.Contains(t, sender.sent[0], "2025-07-20")
	assert.Contains(t, sender.sent[0], "120")
	assert.Contains(t, sender.sent[0], "renewal")
}

func TestNotifierQueuesOnSendFailure(t *testing.T) {
	store := newTestOutbox(t)
	sender := &fakeSender{err: errors.New("telegram down")}
	notifier := NewNotifier(sender, store, 42, zap.NewNop())

	require.NoError(t, notifier.SendSystem("Alert", "something happened"))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size, "failed delivery lands in the outbox")

	batch, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, outbox.KindSystem, batch[0].Kind)
	assert.Equal(t, int64(42), batch[0].ChatID)
	assert.Contains(t, batch[0].Message, "Alert")
}

func TestNotifierDisabled(t *testing.T) {
	t.Run("no sender", func(t *testing.T) {
		notifier := NewNotifier(nil, newTestOutbox(t), 42, zap.NewNop())
		assert.False(t, notifier.Enabled())
		assert.NoError(t, notifier.SendSystem("ignored", "no transport"))
	})

	t.Run("no chat id", func(t *testing.T) {
		notifier := NewNotifier(&fakeSender{}, newTestOutbox(t), 0, zap.NewNop())
		assert.False(t, notifier.Enabled())
	})
}

func TestFormatReminder(t *testing.T) {
	msg := FormatReminder(domain.UpcomingPayment{
		ProjectID:     "7",
		ProjectName:   "Blog",
		PaymentDate:   "2025-07-21",
		PaymentAmount: "30",
		DaysLeft:      0,
	})
	assert.Contains(t, msg, "Payment reminder")
	assert.Contains(t, msg, "Blog")
	assert.Contains(t, msg, "Days left: <b>0</b>")
	assert.NotContains(t, msg, "Note:", "empty note omitted")
}
