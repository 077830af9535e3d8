package authenticate

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"tourneybot/entity"
	"tourneybot/lib/api/cont"

	"github.com/stretchr/testify/assert"
)

type tokenTable map[string]entity.Identity

func (t tokenTable) AuthenticateByToken(token string) (*entity.Identity, error) {
	id, ok := t[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &id, nil
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		err    error
	}{
		{header: "", err: errNoHeader},
		{header: "Bearer abc", want: "abc"},
		{header: "bearer  abc ", want: "abc"},
		{header: "Basic abc", err: errNoBearer},
		{header: "Bearer", err: errNoBearer},
		{header: "Bearer   ", err: errNoBearer},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, err := bearerToken(r)
		assert.Equal(t, tt.want, got, tt.header)
		assert.ErrorIs(t, err, tt.err, tt.header)
	}
}

func TestRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1:5555", remoteAddr(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", remoteAddr(r))
}

func TestMiddlewarePutsAdminInContext(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := tokenTable{"s3cret": {Username: "api-1"}}

	var seen entity.Identity
	h := New(log, auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = cont.GetAdmin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "api-1", seen.Username)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer nope")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
