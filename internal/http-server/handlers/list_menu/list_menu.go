package listmenu

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

type ItemLister interface {
	List(ctx context.Context) ([]models.MenuItem, error)
}

func New(log *slog.Logger, lister ItemLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.list-menu.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		items, err := lister.List(r.Context())
		if err != nil {
			log.Error("failed to list menu", sl.Err(err))

			handlers.Errors.Render(w, r, err)

			return
		}

		if items == nil {
			items = []models.MenuItem{}
		}

		render.JSON(w, r, items)
	}
}
