// Package auth decides who is an administrator: Telegram users by username,
// HTTP API clients by bearer token.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"tourneybot/entity"
)

var ErrUnknownToken = errors.New("unknown token")

// Policy answers the single authorization question of the bot.
type Policy interface {
	IsAdmin(ctx context.Context, who entity.Identity) bool
}

// AllowList grants admin rights to a static set of usernames. Matching ignores
// case and a leading @; an empty username never matches.
type AllowList struct {
	names map[string]struct{}
}

func NewAllowList(usernames []string) *AllowList {
	a := &AllowList{names: make(map[string]struct{}, len(usernames))}
	for _, name := range usernames {
		if n := entity.NormalizeUsername(name); n != "" {
			a.names[n] = struct{}{}
		}
	}
	return a
}

func (a *AllowList) IsAdmin(_ context.Context, who entity.Identity) bool {
	name := entity.NormalizeUsername(who.Username)
	if name == "" {
		return false
	}
	_, ok := a.names[name]
	return ok
}

func (a *AllowList) Len() int {
	return len(a.names)
}

type anyPolicy []Policy

// Any is satisfied when at least one of the non-nil policies is.
func Any(policies ...Policy) Policy {
	var list anyPolicy
	for _, p := range policies {
		if p != nil {
			list = append(list, p)
		}
	}
	return list
}

func (p anyPolicy) IsAdmin(ctx context.Context, who entity.Identity) bool {
	for _, policy := range p {
		if policy.IsAdmin(ctx, who) {
			return true
		}
	}
	return false
}

// Auth resolves HTTP API bearer tokens to admin identities.
type Auth struct {
	tokens []string
}

func New(tokens []string) *Auth {
	a := &Auth{}
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			a.tokens = append(a.tokens, t)
		}
	}
	return a
}

func (a *Auth) AdminByToken(token string) (*entity.Identity, error) {
	if token == "" {
		return nil, ErrUnknownToken
	}
	for i, t := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			return &entity.Identity{Username: fmt.Sprintf("api-%d", i+1)}, nil
		}
	}
	return nil, ErrUnknownToken
}
