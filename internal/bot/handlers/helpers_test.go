package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestCommandArgument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "command with argument",
			text:     "/setwelcome Welcome $firstname!",
			expected: "Welcome $firstname!",
		},
		{
			name:     "command with bot mention",
			text:     "/setwelcome@my_greeter_bot Welcome $firstname!",
			expected: "Welcome $firstname!",
		},
		{
			name:     "bare command",
			text:     "/setwelcome",
			expected: "",
		},
		{
			name:     "whitespace-only argument",
			text:     "/setwelcome    ",
			expected: "",
		},
		{
			name:     "argument keeps inner whitespace",
			text:     "/setwelcome  Hello   there ",
			expected: "Hello   there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := commandArgument(tt.text); got != tt.expected {
				t.Errorf("commandArgument(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestIsGroupChat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		chatType models.ChatType
		expected bool
	}{
		{models.ChatTypeGroup, true},
		{models.ChatTypeSupergroup, true},
		{models.ChatTypePrivate, false},
		{models.ChatTypeChannel, false},
	}

	for _, tt := range tests {
		if got := isGroupChat(models.Chat{Type: tt.chatType}); got != tt.expected {
			t.Errorf("isGroupChat(%q) = %v, want %v", tt.chatType, got, tt.expected)
		}
	}
}

func TestMemberFromUser(t *testing.T) {
	t.Parallel()

	m := memberFromUser(&models.User{ID: 3, Username: "bob", FirstName: "Bob"})
	if m.ID != 3 || m.Username != "bob" || m.FirstName != "Bob" {
		t.Errorf("memberFromUser = %+v", m)
	}

	if m := memberFromUser(nil); m.ID != 0 || m.Username != "" || m.FirstName != "" {
		t.Errorf("memberFromUser(nil) = %+v, want zero value", m)
	}
}
