package telegram

import (
	"gopkg.in/telebot.v3"
)

// SummaryNotifier posts the end-of-run summary line to the ops chat, so the
// compliance team sees the outcome without reading logs. Implements the
// app.SummaryNotifier interface.
type SummaryNotifier struct {
	bot    *telebot.Bot
	chatID int64
}

// New creates the ops notifier. Offline mode skips the token verification
// round-trip; it is only used by tests.
func New(token string, chatID int64, offline bool) (*SummaryNotifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token, Offline: offline})
	if err != nil {
		return nil, err
	}
	return &SummaryNotifier{bot: bot, chatID: chatID}, nil
}

func (n *SummaryNotifier) NotifySummary(summary string) error {
	_, err := n.bot.Send(&telebot.Chat{ID: n.chatID}, summary)
	return err
}
