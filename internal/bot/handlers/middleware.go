// Package handlers contains Telegram bot command and event handlers, along
// with their dispatch table and context-filtering middleware.
package handlers

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// GroupOnly creates a middleware that restricts a command to group chats.
// Outside a group it sends a redirect notice and stops processing, before any
// ownership evaluation happens.
func GroupOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}
			if !isGroupChat(update.Message.Chat) {
				log := deps.Logger.With("middleware", "group_only")
				log.DebugContext(ctx, "Group-only command issued outside a group",
					"chat_id", update.Message.Chat.ID)
				sendError(ctx, b, deps, log, update.Message.Chat.ID, deps.Config.Messages.ErrNotGroup)
				return
			}
			next(ctx, b, update)
		}
	}
}

// SuppressInGroups creates a middleware that silently drops a command when it
// is issued inside a group, keeping purely informational commands private.
func SuppressInGroups(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}
			if isGroupChat(update.Message.Chat) {
				deps.Logger.DebugContext(ctx, "Suppressing command inside group",
					"middleware", "suppress_in_groups", "chat_id", update.Message.Chat.ID)
				return
			}
			next(ctx, b, update)
		}
	}
}

// RequireMentionInGroups creates a middleware that, inside a group, only lets
// a command through when the message explicitly mentions the configured bot
// handle. Several bots often share command names like /help; without the
// mention gate each of them would answer. Private chats always pass.
func RequireMentionInGroups(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}
			if isGroupChat(update.Message.Chat) {
				mention := "@" + deps.Config.Telegram.BotUsername
				if !strings.Contains(update.Message.Text, mention) {
					deps.Logger.DebugContext(ctx, "Command in group without bot mention, ignoring",
						"middleware", "require_mention", "chat_id", update.Message.Chat.ID)
					return
				}
			}
			next(ctx, b, update)
		}
	}
}
