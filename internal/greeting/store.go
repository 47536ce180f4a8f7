package greeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/edgard/welcomebot/internal/database"
)

// Durable key layout, one pair of keys per chat id.
const (
	templateKeySuffix = "_msg_template"
	ownerKeySuffix    = "_owner_id"
)

// KV is the durable key-value contract the config store persists through.
// Implementations report absent keys with database.ErrNotFound.
type KV interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// ConfigStore holds the per-chat group configuration: the welcome template
// and the id of the member who added the bot to the chat (the owner).
// Templates are mirrored in memory for read-through access; owner ids always
// hit durable storage. The mirror is the only shared mutable state in the
// process and is safe for concurrent handler dispatch.
type ConfigStore struct {
	kv              KV
	logger          *slog.Logger
	defaultTemplate string

	mu        sync.RWMutex
	templates map[int64]string
}

// NewConfigStore creates a ConfigStore over the given durable store.
// defaultTemplate is returned (and mirrored, but never persisted) for chats
// without a stored template.
func NewConfigStore(kv KV, defaultTemplate string, logger *slog.Logger) *ConfigStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ConfigStore{
		kv:              kv,
		logger:          logger.With("component", "config_store"),
		defaultTemplate: defaultTemplate,
		templates:       make(map[int64]string),
	}
}

func templateKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10) + templateKeySuffix
}

func ownerKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10) + ownerKeySuffix
}

// Template returns the active welcome template for a chat. Reads go through
// the in-memory mirror first, then durable storage, then fall back to the
// default template. Misses are not errors; only storage failures are.
func (c *ConfigStore) Template(ctx context.Context, chatID int64) (string, error) {
	c.mu.RLock()
	tpl, ok := c.templates[chatID]
	c.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := c.kv.GetItem(ctx, templateKey(chatID))
	if errors.Is(err, database.ErrNotFound) {
		tpl = c.defaultTemplate
	} else if err != nil {
		return "", fmt.Errorf("failed to read template for chat %d: %w", chatID, err)
	}

	c.mu.Lock()
	c.templates[chatID] = tpl
	c.mu.Unlock()

	return tpl, nil
}

// SetTemplate persists a new welcome template for a chat and then updates the
// mirror. The durable write completes before the mirror changes, so the
// mirror never diverges from storage after a successful call.
func (c *ConfigStore) SetTemplate(ctx context.Context, chatID int64, template string) error {
	if err := c.kv.SetItem(ctx, templateKey(chatID), template); err != nil {
		return fmt.Errorf("failed to store template for chat %d: %w", chatID, err)
	}

	c.mu.Lock()
	c.templates[chatID] = template
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "template updated", "chat_id", chatID)
	return nil
}

// RemoveTemplate deletes a chat's template from durable storage and the
// mirror. Removing an absent template is not an error.
func (c *ConfigStore) RemoveTemplate(ctx context.Context, chatID int64) error {
	if err := c.kv.RemoveItem(ctx, templateKey(chatID)); err != nil {
		return fmt.Errorf("failed to remove template for chat %d: %w", chatID, err)
	}

	c.mu.Lock()
	delete(c.templates, chatID)
	c.mu.Unlock()

	return nil
}

// OwnerID returns the recorded owner of a chat, with ok reporting whether an
// owner is recorded at all.
func (c *ConfigStore) OwnerID(ctx context.Context, chatID int64) (int64, bool, error) {
	value, err := c.kv.GetItem(ctx, ownerKey(chatID))
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read owner for chat %d: %w", chatID, err)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt owner record for chat %d: %w", chatID, err)
	}
	return id, true, nil
}

// SetOwnerID records the member who added the bot to a chat. The owner is
// immutable for the lifetime of the group config except through RemoveOwnerID.
func (c *ConfigStore) SetOwnerID(ctx context.Context, chatID, userID int64) error {
	if err := c.kv.SetItem(ctx, ownerKey(chatID), strconv.FormatInt(userID, 10)); err != nil {
		return fmt.Errorf("failed to store owner for chat %d: %w", chatID, err)
	}
	c.logger.DebugContext(ctx, "owner recorded", "chat_id", chatID, "user_id", userID)
	return nil
}

// RemoveOwnerID deletes a chat's owner record. Idempotent.
func (c *ConfigStore) RemoveOwnerID(ctx context.Context, chatID int64) error {
	if err := c.kv.RemoveItem(ctx, ownerKey(chatID)); err != nil {
		return fmt.Errorf("failed to remove owner for chat %d: %w", chatID, err)
	}
	return nil
}

// Clear destroys the whole group config (owner and template) for a chat,
// used when the bot is removed from the group.
func (c *ConfigStore) Clear(ctx context.Context, chatID int64) error {
	if err := c.RemoveOwnerID(ctx, chatID); err != nil {
		return err
	}
	if err := c.RemoveTemplate(ctx, chatID); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "group config cleared", "chat_id", chatID)
	return nil
}

// AuthorizeTemplateChange reports whether userID may change the template for
// chatID. It returns ErrNotOwner when the chat has no recorded owner or the
// recorded owner differs from userID.
func (c *ConfigStore) AuthorizeTemplateChange(ctx context.Context, chatID, userID int64) error {
	owner, ok, err := c.OwnerID(ctx, chatID)
	if err != nil {
		return err
	}
	if !ok || owner != userID {
		return ErrNotOwner
	}
	return nil
}
