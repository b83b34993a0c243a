package web

import (
	"context"
	"log/slog"
	"net/http"

	healthgrpc "restaurante/internal/clients/health/grpc"
	resp "restaurante/internal/lib/api/response"
	"restaurante/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type HealthChecker interface {
	Status(ctx context.Context) (string, error)
}

type HealthResponse struct {
	resp.Response
	API string `json:"api"`
}

// Health reports the client's own liveness plus the API's gRPC health status.
func Health(log *slog.Logger, checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "web.Health"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		apiStatus := healthgrpc.StatusUnknown
		if checker != nil {
			status, err := checker.Status(r.Context())
			if err != nil {
				log.Warn("api health check failed", sl.Err(err))
			} else {
				apiStatus = status
			}
		}

		render.JSON(w, r, HealthResponse{
			Response: resp.OK(),
			API:      apiStatus,
		})
	}
}
