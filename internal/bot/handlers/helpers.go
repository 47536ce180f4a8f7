package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/welcomebot/internal/greeting"
)

// isGroupChat reports whether a chat is a group conversation.
func isGroupChat(chat models.Chat) bool {
	return chat.Type == models.ChatTypeGroup || chat.Type == models.ChatTypeSupergroup
}

// commandArgument returns the text following the command itself, with
// surrounding whitespace removed. It handles the "/cmd@botname" form used in
// groups. An empty result means the command carried no argument.
func commandArgument(text string) string {
	if !strings.HasPrefix(text, "/") {
		return strings.TrimSpace(text)
	}
	_, arg, found := strings.Cut(text, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(arg)
}

// memberFromUser converts a Telegram user into the template engine's member
// identity.
func memberFromUser(u *models.User) greeting.Member {
	if u == nil {
		return greeting.Member{}
	}
	return greeting.Member{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
	}
}

// sendMarkdown sends pre-rendered text with the legacy Markdown parse mode
// the template engine escapes for. Send failures are logged, not returned;
// there is nothing further to do with them in an event handler.
func sendMarkdown(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// sendError sends a user-visible error message carrying the configured error
// prefix that marks it as bot error output.
func sendError(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, chatID int64, text string) {
	sendMarkdown(ctx, b, log, chatID, deps.Config.Messages.ErrorPrefix+text)
}
