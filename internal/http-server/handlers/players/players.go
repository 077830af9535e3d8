package players

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"tourneybot/entity"
	"tourneybot/internal/storage"
	"tourneybot/lib/api/cont"
	"tourneybot/lib/api/response"
	"tourneybot/lib/sl"
)

type Core interface {
	RemovePlayer(ctx context.Context, admin entity.Identity, track entity.Track, username string) (*entity.Player, error)
	ClearAll(ctx context.Context, admin entity.Identity) error
}

// Remove handles DELETE /v1/players/{track}/{username}.
func Remove(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.players"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("player service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Player service not available"))
			return
		}

		track, err := entity.ParseTrack(chi.URLParam(r, "track"))
		if err != nil {
			logger.Warn("invalid track", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid track: %v", err)))
			return
		}
		username := chi.URLParam(r, "username")
		logger = logger.With(sl.Track(track), slog.String("username", username))

		admin, _ := cont.GetAdmin(r.Context())
		player, err := handler.RemovePlayer(r.Context(), admin, track, username)
		if errors.Is(err, storage.ErrPlayerNotFound) {
			logger.Info("player not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Conflict("player_not_found", "Player not found"))
			return
		}
		if err != nil {
			logger.Error("remove player", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		render.JSON(w, r, response.Ok(player))
	}
}

// Clear handles POST /v1/clear; the body must be {"confirm":"confirm"}.
func Clear(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.players"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("player service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Player service not available"))
			return
		}

		var req entity.ClearRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("clear without confirmation", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		admin, _ := cont.GetAdmin(r.Context())
		if err := handler.ClearAll(r.Context(), admin); err != nil {
			logger.Error("clear", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
