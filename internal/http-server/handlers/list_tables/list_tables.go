package listtables

import (
	"context"
	"log/slog"
	"net/http"

	"restaurante/internal/http-server/handlers"
	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type TableLister interface {
	List(ctx context.Context) ([]models.Table, error)
}

func New(log *slog.Logger, lister TableLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.list-tables.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		list, err := lister.List(r.Context())
		if err != nil {
			log.Error("failed to list tables", sl.Err(err))

			handlers.Errors.Render(w, r, err)

			return
		}

		if list == nil {
			list = []models.Table{}
		}

		log.Debug("tables listed", slog.Int("count", len(list)))

		render.JSON(w, r, list)
	}
}
