// Package restaurante is the HTTP client of the booking API.
package restaurante

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	resp "restaurante/internal/lib/api/response"
	"restaurante/internal/models"
)

const defaultBaseURL = "http://localhost:8080/api"

// ErrOffline matches every TransportError.
var ErrOffline = errors.New("api server offline")

// TransportError means the request never got an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrOffline
}

// ServerError is a response with status >= 500.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("api server error %d: %s", e.Status, e.Message)
}

// StatusError is a response below 500 that the caller did not expect.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected api status %d", e.Status)
	}
	return fmt.Sprintf("unexpected api status %d: %s", e.Status, e.Message)
}

// ReservationInput is sent as is; DataHoraInicio is not reparsed on the way out.
type ReservationInput struct {
	UserID    int64  `json:"usuarioId"`
	TableID   int64  `json:"mesaId"`
	Start     string `json:"dataHoraInicio"`
	PartySize int    `json:"numeroPessoas"`
}

type Client struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func New(log *slog.Logger, baseURL string, timeout time.Duration, client *http.Client) *Client {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	trimmed = strings.TrimRight(trimmed, "/")

	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}

	return &Client{baseURL: trimmed, client: client, log: log}
}

// Call sends payload as JSON to endpoint.
// Transport failures and statuses >= 500 come back as errors with a nil response;
// any other status is returned to the caller unexamined.
func (c *Client) Call(ctx context.Context, method, endpoint string, payload any) (*http.Response, error) {
	const op = "restaurante.Call"

	log := c.log.With(
		slog.String("op", op),
		slog.String("method", method),
		slog.String("endpoint", endpoint),
	)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(endpoint, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		log.Warn("api unreachable", slog.String("error", err.Error()))

		return nil, &TransportError{Err: err}
	}

	log.Debug("api responded", slog.Int("status", res.StatusCode))

	if res.StatusCode >= http.StatusInternalServerError {
		defer res.Body.Close()

		code, msg := decodeError(res.Body)
		if msg == "" {
			msg = fmt.Sprintf("Erro interno do servidor (status %d)", res.StatusCode)
		}

		return nil, &ServerError{Status: res.StatusCode, Code: code, Message: msg}
	}

	return res, nil
}

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := c.do(ctx, http.MethodGet, "/mesas", nil, http.StatusOK, &tables); err != nil {
		return nil, err
	}

	return tables, nil
}

func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/usuarios", req, http.StatusCreated, &user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (c *Client) CreateTable(ctx context.Context, req models.CreateTableRequest) (models.Table, error) {
	var table models.Table
	if err := c.do(ctx, http.MethodPost, "/mesas", req, http.StatusCreated, &table); err != nil {
		return models.Table{}, err
	}

	return table, nil
}

func (c *Client) CreateReservation(ctx context.Context, in ReservationInput) (models.Reservation, error) {
	var res models.Reservation
	if err := c.do(ctx, http.MethodPost, "/reservas", in, http.StatusCreated, &res); err != nil {
		return models.Reservation{}, err
	}

	return res, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, want int, out any) error {
	const op = "restaurante.do"

	res, err := c.Call(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != want {
		code, msg := decodeError(res.Body)

		return &StatusError{Status: res.StatusCode, Code: code, Message: msg}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s %s: %w", op, method, endpoint, err)
	}

	return nil
}

// decodeError reads the structured error body; it returns empty strings when there is none.
func decodeError(body io.Reader) (code, message string) {
	var r resp.Response
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return "", ""
	}

	return r.Code, strings.TrimSpace(r.Error)
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
