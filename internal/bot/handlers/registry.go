package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler together with its match
// configuration and context-filtering middleware. It encapsulates everything
// needed to register a command, making dispatch precedence and context
// filtering explicit.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands builds the command dispatch table. The welcome-message
// command name is configurable; /start and /help are fixed.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  []tgbot.Middleware{SuppressInGroups(deps)},
	}
	handlers["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  []tgbot.Middleware{RequireMentionInGroups(deps)},
	}

	command := deps.Config.Telegram.Command
	handlers["/"+command] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     command,
		Handler:     NewSetWelcomeHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  []tgbot.Middleware{GroupOnly(deps)},
	}

	return handlers
}
