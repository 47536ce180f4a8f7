package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/welcomebot/internal/greeting"
)

// NewMembershipHandler returns the default update handler. It reacts to chat
// membership events: the bot joining a group (creates the group config and
// introduces itself), other members joining (greets them with the current
// template), and the bot leaving (destroys the group config). All other
// updates are ignored.
func NewMembershipHandler(deps HandlerDeps) bot.HandlerFunc {
	return membershipHandler{deps}.Handle
}

type membershipHandler struct {
	deps HandlerDeps
}

func (h membershipHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || !isGroupChat(msg.Chat) {
		return
	}

	switch {
	case len(msg.NewChatMembers) > 0:
		h.handleJoins(ctx, b, msg)
	case msg.LeftChatMember != nil:
		h.handleLeft(ctx, b, msg)
	}
}

// botID returns the bot's own user id, known after startup's GetMe call.
func (h membershipHandler) botID() int64 {
	if h.deps.Config.Telegram.BotInfo == nil {
		return 0
	}
	return h.deps.Config.Telegram.BotInfo.ID
}

func (h membershipHandler) handleJoins(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "membership", "chat_id", msg.Chat.ID)

	for i := range msg.NewChatMembers {
		member := &msg.NewChatMembers[i]

		if member.ID == h.botID() {
			h.handleBotAdded(ctx, b, msg, log)
			continue
		}
		if member.IsBot {
			log.DebugContext(ctx, "Ignoring joining bot", "user_id", member.ID)
			continue
		}
		h.greet(ctx, b, msg, member, log)
	}
}

// handleBotAdded transitions the chat from unconfigured to configured: the
// introduction goes out first, then the inviter is recorded as owner.
func (h membershipHandler) handleBotAdded(ctx context.Context, b *bot.Bot, msg *models.Message, log *slog.Logger) {
	if msg.From == nil {
		log.WarnContext(ctx, "Bot added without inviter information, no owner recorded")
		return
	}

	log.InfoContext(ctx, "Bot added to group", "inviter_id", msg.From.ID, "group", msg.Chat.Title)

	intro := greeting.Render(h.deps.Config.Messages.Intro, memberFromUser(msg.From), msg.Chat.Title)
	sendMarkdown(ctx, b, log, msg.Chat.ID, intro)

	if err := h.deps.Configs.SetOwnerID(ctx, msg.Chat.ID, msg.From.ID); err != nil {
		log.ErrorContext(ctx, "Failed to record group owner", "error", err, "inviter_id", msg.From.ID)
		sendError(ctx, b, h.deps, log, msg.Chat.ID, h.deps.Config.Messages.ErrGeneral)
	}
}

// greet welcomes a newly joined member with the group's current template,
// falling back to the default when none is stored.
func (h membershipHandler) greet(ctx context.Context, b *bot.Bot, msg *models.Message, member *models.User, log *slog.Logger) {
	template, err := h.deps.Configs.Template(ctx, msg.Chat.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load welcome template", "error", err, "user_id", member.ID)
		sendError(ctx, b, h.deps, log, msg.Chat.ID, h.deps.Config.Messages.ErrGeneral)
		return
	}

	log.InfoContext(ctx, "Greeting new member", "user_id", member.ID)
	welcome := greeting.Render(template, memberFromUser(member), msg.Chat.Title)
	sendMarkdown(ctx, b, log, msg.Chat.ID, welcome)
}

func (h membershipHandler) handleLeft(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "membership", "chat_id", msg.Chat.ID)

	if msg.LeftChatMember.ID != h.botID() {
		return
	}

	log.InfoContext(ctx, "Bot removed from group, destroying group config", "group", msg.Chat.Title)
	if err := h.deps.Configs.Clear(ctx, msg.Chat.ID); err != nil {
		// The chat is gone; nothing user-visible to do, but the record is
		// now orphaned and worth a loud log line.
		log.ErrorContext(ctx, "Failed to clear group config", "error", err)
	}
}
