package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/welcomebot/internal/greeting"
)

// NewSetWelcomeHandler returns the handler for the welcome-message change
// command. Only the member who added the bot to the group may use it; the
// GroupOnly middleware has already rejected private chats by the time this
// handler runs.
func NewSetWelcomeHandler(deps HandlerDeps) bot.HandlerFunc {
	return setWelcomeHandler{deps}.Handle
}

type setWelcomeHandler struct {
	deps HandlerDeps
}

func (h setWelcomeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_welcome")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set-welcome handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	issuer := update.Message.From

	template := commandArgument(update.Message.Text)
	if err := greeting.ValidateTemplate(template); err != nil {
		log.InfoContext(ctx, "Rejected empty welcome template", "chat_id", chatID, "user_id", issuer.ID)
		sendError(ctx, b, h.deps, log, chatID, h.deps.Config.Messages.ErrEmptyTemplate)
		return
	}

	if err := h.deps.Configs.AuthorizeTemplateChange(ctx, chatID, issuer.ID); err != nil {
		if errors.Is(err, greeting.ErrNotOwner) {
			log.InfoContext(ctx, "Rejected template change from non-owner",
				"chat_id", chatID, "user_id", issuer.ID)
			sendError(ctx, b, h.deps, log, chatID, h.deps.Config.Messages.ErrNotOwner)
			return
		}
		log.ErrorContext(ctx, "Failed to check group ownership", "error", err, "chat_id", chatID)
		sendError(ctx, b, h.deps, log, chatID, h.deps.Config.Messages.ErrGeneral)
		return
	}

	// The write must complete before any confirmation goes out.
	if err := h.deps.Configs.SetTemplate(ctx, chatID, template); err != nil {
		log.ErrorContext(ctx, "Failed to store welcome template", "error", err, "chat_id", chatID)
		sendError(ctx, b, h.deps, log, chatID, h.deps.Config.Messages.ErrGeneral)
		return
	}

	log.InfoContext(ctx, "Welcome template updated", "chat_id", chatID, "user_id", issuer.ID)

	// Confirm with a preview rendered against the issuer, so the owner sees
	// how the greeting will look for a joining member.
	preview := greeting.Render(template, memberFromUser(issuer), update.Message.Chat.Title)
	sendMarkdown(ctx, b, log, chatID, preview)
}
