package createreservation

import (
	"context"
	"log/slog"
	"net/http"

	"restaurante/internal/http-server/handlers"
	resp "restaurante/internal/lib/api/response"
	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

type ReservationCreator interface {
	Create(ctx context.Context, req models.CreateReservationRequest) (models.Reservation, error)
}

func New(log *slog.Logger, creator ReservationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.create-reservation.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req models.CreateReservationRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.CodeBadRequest, "Failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		// Валидация
		if err := handlers.Validate(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		// validator не проверяет required у полей-структур
		if req.Start.IsZero() {
			log.Error("invalid request: missing start time")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.CodeValidationFailed, "field dataHoraInicio is a required field"))

			return
		}

		res, err := creator.Create(r.Context(), req)
		if err != nil {
			info := handlers.Errors.Render(w, r, err)

			log.Error("failed to create reservation", sl.Err(err), slog.Int("status", info.Status))

			return
		}

		log.Info("reservation created", slog.Int64("reservation_id", res.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, res)
	}
}
