package pending

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"tourneybot/entity"
	"tourneybot/internal/storage"
	"tourneybot/lib/api/cont"
	"tourneybot/lib/api/response"
	"tourneybot/lib/sl"
)

type Core interface {
	ConfirmPending(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Player, error)
	RejectPending(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Registration, error)
}

// Confirm handles POST /v1/pending/{user_id}/{track}/confirm.
func Confirm(log *slog.Logger, handler Core) http.HandlerFunc {
	return decide(log, handler, "confirm", func(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (interface{}, error) {
		return handler.ConfirmPending(ctx, admin, userID, track)
	})
}

// Reject handles POST /v1/pending/{user_id}/{track}/reject.
func Reject(log *slog.Logger, handler Core) http.HandlerFunc {
	return decide(log, handler, "reject", func(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (interface{}, error) {
		return handler.RejectPending(ctx, admin, userID, track)
	})
}

type decision func(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (interface{}, error)

func decide(log *slog.Logger, handler Core, name string, apply decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.pending"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("decision", name),
		)

		if handler == nil {
			logger.Error("decision service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Decision service not available"))
			return
		}

		userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
		if err != nil || userID <= 0 {
			logger.Warn("invalid user id")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid user id"))
			return
		}
		track, err := entity.ParseTrack(chi.URLParam(r, "track"))
		if err != nil {
			logger.Warn("invalid track", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid track: %v", err)))
			return
		}
		logger = logger.With(slog.Int64("user_id", userID), sl.Track(track))

		admin, _ := cont.GetAdmin(r.Context())
		result, err := apply(r.Context(), admin, userID, track)
		switch {
		case errors.Is(err, storage.ErrPendingNotFound):
			logger.Info("pending registration not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Conflict("pending_not_found", "Pending registration not found"))
			return
		case errors.Is(err, storage.ErrConfirmConflict):
			logger.Warn("confirm conflict")
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Conflict("confirm_conflict", "Confirmed entry already exists"))
			return
		case err != nil:
			logger.Error("apply decision", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		render.JSON(w, r, response.Ok(result))
	}
}
