package createuser

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

type UserRegistrar interface {
	Register(ctx context.Context, req models.CreateUserRequest) (models.User, error)
}

func New(log *slog.Logger, registrar UserRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.create-user.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req models.CreateUserRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.CodeBadRequest, "Failed to decode request"))

			return
		}

		// пароль в лог не пишем
		log.Info("request body decoded", slog.String("email", req.Email))

		if err := handlers.Validate(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		user, err := registrar.Register(r.Context(), req)
		if err != nil {
			info := handlers.Errors.Render(w, r, err)

			log.Error("failed to create user", sl.Err(err), slog.Int("status", info.Status))

			return
		}

		log.Info("user created", slog.Int64("user_id", user.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, user)
	}
}
