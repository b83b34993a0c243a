package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	grpclog "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpcretry "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// StatusUnknown is reported when the API cannot be asked.
const StatusUnknown = "UNKNOWN"

// ServiceName is the name the API reports its health under.
const ServiceName = "restaurante.api"

type Client struct {
	api     healthpb.HealthClient
	conn    *grpc.ClientConn
	service string
	log     *slog.Logger
}

func New(
	ctx context.Context,
	log *slog.Logger,
	addr string,
	service string,
	timeout time.Duration,
	retriesCount int,
	opts ...grpc.DialOption,
) (*Client, error) {
	const op = "grpc.New"

	retryOpts := []grpcretry.CallOption{
		grpcretry.WithCodes(codes.NotFound, codes.Aborted, codes.DeadlineExceeded),
		grpcretry.WithMax(uint(retriesCount)),
		grpcretry.WithPerRetryTimeout(timeout),
	}

	logOpts := []grpclog.Option{
		grpclog.WithLogOnEvents(grpclog.PayloadReceived, grpclog.PayloadSent),
	}

	// TODO: перейти на TLS, когда API начнёт отдавать сертификат
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			grpclog.UnaryClientInterceptor(interceptorLogger(log), logOpts...),
			grpcretry.UnaryClientInterceptor(retryOpts...),
		),
	}, opts...)

	cc, err := grpc.DialContext(ctx, addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		api:     healthpb.NewHealthClient(cc),
		conn:    cc,
		service: service,
		log:     log,
	}, nil
}

// Status returns the serving status name of the API (SERVING, NOT_SERVING, ...).
func (c *Client) Status(ctx context.Context) (string, error) {
	const op = "grpc.Status"

	resp, err := c.api.Check(ctx, &healthpb.HealthCheckRequest{
		Service: c.service,
	})
	if err != nil {
		return StatusUnknown, fmt.Errorf("%s: %w", op, err)
	}

	return resp.GetStatus().String(), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func interceptorLogger(l *slog.Logger) grpclog.Logger {
	return grpclog.LoggerFunc(func(ctx context.Context, lvl grpclog.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}
