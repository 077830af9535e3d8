package document

import (
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"tourneybot/internal/export"
	"tourneybot/lib/api/response"
	"tourneybot/lib/sl"
)

type Core interface {
	ExportJSON() (*export.Document, error)
	ExportRoster() (*export.Document, error)
}

func JSON(log *slog.Logger, handler Core) http.HandlerFunc {
	return serve(log, handler, func(c Core) (*export.Document, error) { return c.ExportJSON() })
}

func Roster(log *slog.Logger, handler Core) http.HandlerFunc {
	return serve(log, handler, func(c Core) (*export.Document, error) { return c.ExportRoster() })
}

func serve(log *slog.Logger, handler Core, build func(Core) (*export.Document, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.document"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("export service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Export service not available"))
			return
		}

		doc, err := build(handler)
		if err != nil {
			logger.Error("export", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Export failed: %v", err)))
			return
		}

		w.Header().Set("Content-Type", doc.MimeType)
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
		if _, err = w.Write(doc.Data); err != nil {
			logger.Error("failed to write document", sl.Err(err))
			return
		}
		logger.With(slog.String("file", doc.Name), slog.Int("size", len(doc.Data))).Info("document exported")
	}
}
