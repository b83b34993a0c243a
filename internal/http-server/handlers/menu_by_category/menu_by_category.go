package menubycategory

import (
	"context"
	"log/slog"
	"net/http"

	"restaurante/internal/http-server/handlers"
	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type CategoryLister interface {
	ByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
}

func New(log *slog.Logger, lister CategoryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.menu-by-category.New"

		category := chi.URLParam(r, "categoria")

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("category", category),
		)

		items, err := lister.ByCategory(r.Context(), category)
		if err != nil {
			log.Error("failed to list menu by category", sl.Err(err))

			handlers.Errors.Render(w, r, err)

			return
		}

		if items == nil {
			items = []models.MenuItem{}
		}

		render.JSON(w, r, items)
	}
}
