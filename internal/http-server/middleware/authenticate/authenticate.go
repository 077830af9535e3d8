// Package authenticate admits API requests that carry a known admin bearer
// token and logs every request with the admin it was made by.
package authenticate

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"tourneybot/entity"
	"tourneybot/lib/api/cont"
	"tourneybot/lib/api/response"
	"tourneybot/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

var (
	errNoHeader = errors.New("authorization header not found")
	errNoBearer = errors.New("bearer token not found")
)

type Authenticate interface {
	AuthenticateByToken(token string) (*entity.Identity, error)
}

func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	logger := log.With(sl.Module("middleware.authenticate"))

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLog := logger.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remoteAddr(r)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			started := time.Now()
			defer func() {
				reqLog.With(
					slog.Int("status", ww.Status()),
					slog.Float64("duration", time.Since(started).Seconds()),
				).Info("admin api request")
			}()

			token, err := bearerToken(r)
			if err != nil {
				reqLog = reqLog.With(sl.Err(err))
				unauthorized(ww, r)
				return
			}
			admin, err := auth.AuthenticateByToken(token)
			if err != nil {
				reqLog = reqLog.With(sl.Secret("token", token), sl.Err(err))
				unauthorized(ww, r)
				return
			}
			reqLog = reqLog.With(slog.String("admin", admin.String()))

			next.ServeHTTP(ww, r.WithContext(cont.PutAdmin(r.Context(), *admin)))
		}
		return http.HandlerFunc(fn)
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoHeader
	}
	scheme, value, ok := strings.Cut(header, " ")
	token := strings.TrimSpace(value)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errNoBearer
	}
	return token, nil
}

// remoteAddr prefers the first X-Forwarded-For hop when behind a proxy.
func remoteAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("Unauthorized"))
}
