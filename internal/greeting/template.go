// Package greeting implements the welcome-message template engine and the
// per-group configuration state (owner identity and template text) behind it.
package greeting

import (
	"regexp"
	"strings"
)

// Member identifies a chat member at the time an event is handled. Username
// is empty when the member has not set a Telegram handle. Members are never
// persisted; they only pass through render calls.
type Member struct {
	ID        int64
	Username  string
	FirstName string
}

// Substitution passes run in this order, followed by the literal ($$) pass.
// The literal pass must run last so that "$$username" is not first consumed
// as "$username" preceded by a stray dollar.
var (
	usernameToken     = regexp.MustCompile(`(^|[^$])\$username`)
	firstNameToken    = regexp.MustCompile(`(^|[^$])\$firstname`)
	groupNameToken    = regexp.MustCompile(`(^|[^$])\$groupname`)
	safeUsernameToken = regexp.MustCompile(`(^|[^$])\$safeusername`)
	literalToken      = regexp.MustCompile(`\$\$(username|safeusername|firstname|groupname)`)
)

// markdownEscaper escapes the characters with special meaning in Telegram's
// legacy Markdown renderer, so member- or group-supplied text cannot break
// formatting or inject markup into the rendered message.
var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMarkdown escapes free text for Telegram's legacy Markdown parse mode.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Render substitutes the recognized placeholder tokens ($username,
// $safeusername, $firstname, $groupname) in template for the given member and
// group name. A doubled dollar ($$username) emits the literal placeholder
// text instead of a substitution and is never re-expanded.
//
// $username expands to "@undefined" for members without a handle; this quirk
// is caller-visible and callers are steered toward $safeusername instead.
// Rendering is pure and has no error conditions; templates without
// placeholders pass through unchanged.
func Render(template string, member Member, groupName string) string {
	username := "@undefined"
	if member.Username != "" {
		username = "@" + EscapeMarkdown(member.Username)
	}

	safeUsername := username
	if member.Username == "" {
		safeUsername = "@" + EscapeMarkdown(member.FirstName)
	}

	out := substitute(usernameToken, template, username)
	out = substitute(firstNameToken, out, EscapeMarkdown(member.FirstName))
	out = substitute(groupNameToken, out, EscapeMarkdown(groupName))
	out = substitute(safeUsernameToken, out, safeUsername)

	// "$$name" -> "$name", emitted as literal text after all tokens resolved
	return literalToken.ReplaceAllString(out, "$$$1")
}

// ValidateTemplate rejects template text that is empty or whitespace-only
// with ErrEmptyTemplate.
func ValidateTemplate(template string) error {
	if strings.TrimSpace(template) == "" {
		return ErrEmptyTemplate
	}
	return nil
}

// substitute replaces every token match with value, preserving the single
// non-dollar character the pattern captured before the token.
func substitute(token *regexp.Regexp, s, value string) string {
	return token.ReplaceAllStringFunc(s, func(match string) string {
		prefix, _, _ := strings.Cut(match, "$")
		return prefix + value
	})
}
