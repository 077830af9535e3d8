package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"tourneybot/entity"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/workflow"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("line one\nline two\nline three", 12)
	assert.Equal(t, []string{"line one\n", "line two\n", "line three"}, parts)

	cyrillic := strings.Repeat("я", 10) // 20 bytes
	parts = splitMessage(cyrillic, 7)
	assert.Equal(t, cyrillic, strings.Join(parts, ""))
	for _, p := range parts {
		assert.True(t, len(p) <= 7)
		assert.Equal(t, 0, len(p)%2, "part %q cuts a rune", p)
	}
}

func TestCommandArg(t *testing.T) {
	assert.Equal(t, "@alice", commandArg("/confirm @alice"))
	assert.Equal(t, "confirm", commandArg("/clear   confirm "))
	assert.Equal(t, "", commandArg("/roster"))
}

func TestInlineKeyboard(t *testing.T) {
	kb := workflow.Keyboard{{
		{Text: "Confirm", Data: workflow.CallbackData(workflow.CallbackConfirm, 7, entity.TrackVSA)},
		{Text: "Reject", Data: workflow.CallbackData(workflow.CallbackReject, 7, entity.TrackVSA)},
	}}
	markup := inlineKeyboard(kb)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "c:7:vsa", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "Reject", markup.InlineKeyboard[0][1].Text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}

func TestFormatDigest(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	text := formatDigest([]DigestEntry{
		{Message: "persisting state failed", Level: slog.LevelWarn, Timestamp: at},
		{Message: "rate limited", Level: slog.LevelWarn, Timestamp: at},
	})
	assert.Contains(t, text, "Digest (2 messages)")
	assert.Contains(t, text, "09:30 WARN persisting state failed")
}

func TestCommandMenu(t *testing.T) {
	user := commandMenu(interpreter.LangEN, false)
	admin := commandMenu(interpreter.LangRU, true)
	assert.Len(t, user, len(userCommands))
	assert.Len(t, admin, len(userCommands)+len(adminCommands))
	for _, c := range admin {
		assert.NotEmpty(t, c.Description, c.Command)
	}
}

type fakeMembers struct {
	statuses map[int64]tgbotapi.ChatMember
	err      error
	calls    int
}

func (f *fakeMembers) GetChatMember(_ int64, userId int64, _ *tgbotapi.GetChatMemberOpts) (tgbotapi.ChatMember, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.statuses[userId]; ok {
		return m, nil
	}
	return tgbotapi.ChatMemberLeft{}, nil
}

func TestChatRoleAdmins(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := &fakeMembers{statuses: map[int64]tgbotapi.ChatMember{
		1: tgbotapi.ChatMemberOwner{},
		2: tgbotapi.ChatMemberAdministrator{},
		3: tgbotapi.ChatMemberMember{},
	}}
	policy := newChatRoleAdmins(api, -100, log)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	policy.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, policy.IsAdmin(ctx, entity.Identity{UserID: 1}))
	assert.True(t, policy.IsAdmin(ctx, entity.Identity{UserID: 2}))
	assert.False(t, policy.IsAdmin(ctx, entity.Identity{UserID: 3}))
	assert.False(t, policy.IsAdmin(ctx, entity.Identity{UserID: 4}))
	assert.False(t, policy.IsAdmin(ctx, entity.Identity{}))

	calls := api.calls
	assert.True(t, policy.IsAdmin(ctx, entity.Identity{UserID: 1}))
	assert.Equal(t, calls, api.calls, "cached answer")

	now = now.Add(roleCacheTTL + time.Second)
	api.err = errors.New("telegram unavailable")
	assert.True(t, policy.IsAdmin(ctx, entity.Identity{UserID: 1}), "stale answer kept on lookup failure")
	assert.False(t, policy.IsAdmin(ctx, entity.Identity{UserID: 5}))

	var disabled *ChatRoleAdmins
	assert.False(t, disabled.IsAdmin(ctx, entity.Identity{UserID: 1}))
	assert.False(t, newChatRoleAdmins(api, 0, log).IsAdmin(ctx, entity.Identity{UserID: 1}))
}
