package registrations

import (
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"tourneybot/entity"
	"tourneybot/impl/core"
	"tourneybot/lib/api/response"
	"tourneybot/lib/sl"
)

type Core interface {
	Statistics() entity.Statistics
	Registrations() *core.Registrations
}

func Stats(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.registrations"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("registration service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Registration service not available"))
			return
		}

		render.JSON(w, r, response.Ok(handler.Statistics()))
	}
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.registrations"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("registration service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Registration service not available"))
			return
		}

		list := handler.Registrations()
		logger.With(slog.Int("pending", len(list.Pending))).Debug("registrations listed")
		render.JSON(w, r, response.Ok(list))
	}
}
