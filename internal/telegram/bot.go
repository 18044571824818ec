package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"cryptorank-telegram-bot/internal/types"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
	}, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// MapUpdate converts a transport update into the core's inbound shape.
// Updates the core has no use for (joins, edits, stickers) map to nil.
func MapUpdate(u tgbotapi.Update) *types.InboundUpdate {
	if u.CallbackQuery != nil && u.CallbackQuery.Message != nil {
		return &types.InboundUpdate{Button: &types.ButtonPress{
			ChatID:      u.CallbackQuery.Message.Chat.ID,
			MessageID:   u.CallbackQuery.Message.MessageID,
			CallbackID:  u.CallbackQuery.ID,
			ActionToken: u.CallbackQuery.Data,
		}}
	}

	if u.Message != nil && u.Message.Text != "" {
		msg := &types.TextMessage{
			ChatID: u.Message.Chat.ID,
			Text:   u.Message.Text,
		}
		if u.Message.From != nil {
			msg.UserID = u.Message.From.ID
			msg.Username = u.Message.From.UserName
		}
		return &types.InboundUpdate{Message: msg}
	}

	return nil
}

// Send delivers a reply: a new message, or an edit in place when the payload
// carries a message id. Delivery failures are soft; the caller logs and
// moves on.
func (b *Bot) Send(p types.ReplyPayload) error {
	var msg tgbotapi.Chattable

	if p.MessageID != 0 {
		edit := tgbotapi.NewEditMessageText(p.ChatID, p.MessageID, p.Text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if markup := buttonRows(p.Buttons); markup != nil {
			edit.ReplyMarkup = markup
		}
		msg = edit
	} else {
		send := tgbotapi.NewMessage(p.ChatID, p.Text)
		send.ParseMode = tgbotapi.ModeMarkdown
		send.DisableWebPagePreview = true
		if markup := buttonRows(p.Buttons); markup != nil {
			send.ReplyMarkup = *markup
		}
		msg = send
	}

	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to chat %d", p.ChatID)
}

// AnswerCallback acknowledges a button press so the client stops showing a
// progress spinner.
func (b *Bot) AnswerCallback(callbackID string) {
	if _, err := b.Bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		log.Errorf("failed to answer callback query: %v", err)
	}
}

// buttonRows lays the payload's buttons out as a single-column inline
// keyboard. Tokens stay opaque here; only the dispatcher interprets them.
func buttonRows(buttons []types.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, button := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(button.Label, button.ActionToken),
		))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
