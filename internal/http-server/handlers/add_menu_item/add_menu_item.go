package addmenuitem

import (
	"context"
	"encoding/json"
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

type Request struct {
	Name        string      `json:"nome" validate:"required"`
	Description string      `json:"descricao"`
	Category    string      `json:"categoria" validate:"required"`
	Price       json.Number `json:"preco" validate:"required"`
	Ingredients []string    `json:"ingredientes"`
}

type ItemAdder interface {
	Add(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
}

func New(log *slog.Logger, adder ItemAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.add-menu-item.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.CodeBadRequest, "Failed to decode request"))

			return
		}

		if err := handlers.Validate(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		item, err := adder.Add(r.Context(), models.MenuItem{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Ingredients: req.Ingredients,
		})
		if err != nil {
			log.Error("failed to add menu item", sl.Err(err))

			handlers.Errors.Render(w, r, err)

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, item)
	}
}
