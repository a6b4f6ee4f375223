package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/internal/infrastructure/outbox"
)

// MessageSender delivers one HTML-formatted message to a chat. Implemented by
// the Telegram transport.
type MessageSender interface {
	SendHTML(chatID int64, text string) error
}

// Notifier formats operator notifications and delivers them through the chat
// transport. Failed deliveries land in the outbox for the retry processor.
type Notifier struct {
	sender MessageSender
	store  *outbox.Store
	chatID int64
	logger *zap.Logger
}

func NewNotifier(sender MessageSender, store *outbox.Store, chatID int64, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		sender: sender,
		store:  store,
		chatID: chatID,
		logger: logger,
	}
}

// Enabled reports whether notifications have somewhere to go.
func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil && n.chatID != 0
}

// SendReminder delivers one payment reminder.
func (n *Notifier) SendReminder(payment domain.UpcomingPayment) error {
	return n.deliver(outbox.KindReminder, FormatReminder(payment))
}

// SendSystem delivers a system notification (startup, shutdown, errors).
func (n *Notifier) SendSystem(title, content string) error {
	return n.deliver(outbox.KindSystem, fmt.Sprintf("<b>%s</b>\n\n%s", title, content))
}

func (n *Notifier) deliver(kind, message string) error {
	if !n.Enabled() {
		n.logger.Debug("notifier disabled, dropping message", zap.String("kind", kind))
		return nil
	}

	if err := n.sender.SendHTML(n.chatID, message); err != nil {
		n.logger.Warn("notification send failed, queued for retry",
			zap.String("kind", kind), zap.Error(err))
		if n.store == nil {
			return err
		}
		return n.store.Enqueue(outbox.Item{
			Kind:    kind,
			ChatID:  n.chatID,
			Message: message,
		})
	}
	return nil
}

// FormatReminder renders the per-record reminder message sent by the
// scheduled scan.
func FormatReminder(p domain.UpcomingPayment) string {
	msg := "\U0001F514 <b>Payment reminder</b>\n\n"
	msg += fmt.Sprintf("\U0001F3E2 Project: %s (ID: %s)\n", p.ProjectName, p.ProjectID)
	msg += fmt.Sprintf("\U0001F4C5 Due date: %s\n", p.PaymentDate)
	msg += fmt.Sprintf("\U0001F4B0 Amount: <b>%s</b> USDT\n", p.PaymentAmount)
	msg += fmt.Sprintf("⏰ Days left: <b>%d</b>\n", p.DaysLeft)
	if p.Details != "" {
		msg += fmt.Sprintf("\U0001F4DD Note: %s\n", p.Details)
	}
	msg += "\nPlease settle the payment in time."
	return msg
}
