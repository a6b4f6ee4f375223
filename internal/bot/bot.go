// Package bot is the Telegram transport: it maps operator commands and
// inline-keyboard callbacks onto the ledger engine and renders the results.
package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// UpdateHandler consumes one inbound Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// Bot wraps the Telegram API client and the long-polling loop. Updates are
// handled to completion one at a time, which serializes writes per chat.
type Bot struct {
	api         *tgbotapi.BotAPI
	logger      *zap.Logger
	pollTimeout time.Duration
}

func New(token string, pollTimeout time.Duration, logger *zap.Logger) (*Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}

	logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))
	return &Bot{
		api:         api,
		logger:      logger,
		pollTimeout: pollTimeout,
	}, nil
}

// Start runs the long-polling loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context, handler UpdateHandler) {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = int(b.pollTimeout.Seconds())

	updates := b.api.GetUpdatesChan(updateCfg)
	b.logger.Info("telegram bot started")

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			handler.HandleUpdate(ctx, update)
		}
	}
}

// Stop ends the long-polling loop.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.logger.Info("telegram bot stopped")
}

// SendHTML delivers an HTML-formatted message to a chat.
func (b *Bot) SendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

// ReplyHTML delivers an HTML message with an optional inline keyboard.
func (b *Bot) ReplyHTML(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	_, err := b.api.Send(msg)
	return err
}

// EditHTML rewrites a previously sent message in place, used by pagination
// buttons so the list does not pile up in the chat.
func (b *Bot) EditHTML(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	_, err := b.api.Send(msg)
	return err
}

// AnswerCallback acknowledges a callback query so the client stops its
// progress indicator.
func (b *Bot) AnswerCallback(callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		b.logger.Debug("callback ack failed", zap.Error(err))
	}
}
