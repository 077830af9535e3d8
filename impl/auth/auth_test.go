package auth

import (
	"context"
	"testing"
	"tourneybot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowList(t *testing.T) {
	list := NewAllowList([]string{"@Admin_Anna", "boris", " ", ""})
	assert.Equal(t, 2, list.Len())

	tests := []struct {
		username string
		want     bool
	}{
		{"admin_anna", true},
		{"ADMIN_ANNA", true},
		{"@Admin_Anna", true},
		{"Boris", true},
		{"mallory", false},
		{"", false},
		{"@", false},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, list.IsAdmin(context.Background(), entity.Identity{UserID: 1, Username: tt.username}))
		})
	}
}

type policyFunc func(entity.Identity) bool

func (f policyFunc) IsAdmin(_ context.Context, who entity.Identity) bool { return f(who) }

func TestAny(t *testing.T) {
	byID := policyFunc(func(who entity.Identity) bool { return who.UserID == 42 })
	policy := Any(nil, NewAllowList([]string{"boris"}), byID)

	ctx := context.Background()
	assert.True(t, policy.IsAdmin(ctx, entity.Identity{Username: "boris"}))
	assert.True(t, policy.IsAdmin(ctx, entity.Identity{UserID: 42}))
	assert.False(t, policy.IsAdmin(ctx, entity.Identity{UserID: 7, Username: "mallory"}))
	assert.False(t, Any().IsAdmin(ctx, entity.Identity{Username: "boris"}))
}

func TestAdminByToken(t *testing.T) {
	a := New([]string{"first-secret", " ", "second-secret"})

	who, err := a.AdminByToken("second-secret")
	require.NoError(t, err)
	assert.Equal(t, "api-2", who.Username)

	_, err = a.AdminByToken("nope")
	assert.ErrorIs(t, err, ErrUnknownToken)
	_, err = a.AdminByToken("")
	assert.ErrorIs(t, err, ErrUnknownToken)
}
