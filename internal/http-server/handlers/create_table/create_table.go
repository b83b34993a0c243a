package createtable

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

type TableCreator interface {
	Create(ctx context.Context, req models.CreateTableRequest) (models.Table, error)
}

func New(log *slog.Logger, creator TableCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.create-table.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req models.CreateTableRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.CodeBadRequest, "Failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err := handlers.Validate(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		table, err := creator.Create(r.Context(), req)
		if err != nil {
			info := handlers.Errors.Render(w, r, err)

			log.Error("failed to create table", sl.Err(err), slog.Int("status", info.Status))

			return
		}

		log.Info("table created", slog.Int64("table_id", table.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, table)
	}
}
