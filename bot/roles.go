package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"tourneybot/entity"
	"tourneybot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

const roleCacheTTL = 5 * time.Minute

type chatMemberAPI interface {
	GetChatMember(chatId int64, userId int64, opts *tgbotapi.GetChatMemberOpts) (tgbotapi.ChatMember, error)
}

type roleEntry struct {
	admin     bool
	checkedAt time.Time
}

// ChatRoleAdmins grants admin rights to the creator and administrators of one
// Telegram chat. Lookups are cached, so losing the role takes effect within
// roleCacheTTL.
type ChatRoleAdmins struct {
	api    chatMemberAPI
	chatId int64
	log    *slog.Logger
	mu     sync.Mutex
	cache  map[int64]roleEntry
	now    func() time.Time
}

// ChatRoleAdmins returns a policy backed by the bot's API; chatId 0 disables it.
func (t *TgBot) ChatRoleAdmins(chatId int64) *ChatRoleAdmins {
	return newChatRoleAdmins(t.api, chatId, t.log)
}

func newChatRoleAdmins(api chatMemberAPI, chatId int64, log *slog.Logger) *ChatRoleAdmins {
	return &ChatRoleAdmins{
		api:    api,
		chatId: chatId,
		log:    log.With(slog.Int64("role_chat", chatId)),
		cache:  make(map[int64]roleEntry),
		now:    time.Now,
	}
}

func (c *ChatRoleAdmins) IsAdmin(ctx context.Context, who entity.Identity) bool {
	if c == nil || c.chatId == 0 || who.UserID == 0 {
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	c.mu.Lock()
	entry, ok := c.cache[who.UserID]
	c.mu.Unlock()
	if ok && c.now().Sub(entry.checkedAt) < roleCacheTTL {
		return entry.admin
	}

	member, err := c.api.GetChatMember(c.chatId, who.UserID, nil)
	if err != nil {
		c.log.With(slog.Int64("user_id", who.UserID)).Warn("checking chat role", sl.Err(err))
		// a failed lookup keeps the last known answer
		return ok && entry.admin
	}
	status := member.GetStatus()
	admin := status == "creator" || status == "administrator"

	c.mu.Lock()
	c.cache[who.UserID] = roleEntry{admin: admin, checkedAt: c.now()}
	c.mu.Unlock()
	return admin
}
