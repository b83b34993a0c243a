package tablereservations

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"restaurante/internal/http-server/handlers"
	resp "restaurante/internal/lib/api/response"
	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ReservationLister interface {
	TableReservations(ctx context.Context, tableID int64) ([]models.Reservation, error)
}

func New(log *slog.Logger, lister ReservationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.table-reservations.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tableID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || tableID <= 0 {
			log.Warn("invalid table id", slog.String("id", chi.URLParam(r, "id")))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.CodeBadRequest, "Invalid table id"))

			return
		}

		list, err := lister.TableReservations(r.Context(), tableID)
		if err != nil {
			info := handlers.Errors.Render(w, r, err)

			log.Error("failed to list reservations", sl.Err(err), slog.Int("status", info.Status))

			return
		}

		if list == nil {
			list = []models.Reservation{}
		}

		render.JSON(w, r, list)
	}
}
