package restaurante

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurante/internal/models"

	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), srv.URL+"/api/", 0, nil)
}

func TestCallServerErrorUsesStructuredMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"status":"Error","code":"internal","error":"Erro interno do servidor."}`)
	})

	res, err := c.Call(context.Background(), http.MethodGet, "/mesas", nil)
	if res != nil {
		t.Errorf("response = %v, want nil", res)
	}

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("err = %v, want *ServerError", err)
	}

	want := &ServerError{Status: 500, Code: "internal", Message: "Erro interno do servidor."}
	if diff := cmp.Diff(want, srvErr); diff != "" {
		t.Errorf("ServerError mismatch (-want +got):\n%s", diff)
	}
}

func TestCallServerErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
	})

	_, err := c.Call(context.Background(), http.MethodGet, "/mesas", nil)

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("err = %v, want *ServerError", err)
	}
	if srvErr.Message != "Erro interno do servidor (status 502)" {
		t.Errorf("message = %q", srvErr.Message)
	}
}

func TestCallOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(slog.New(slog.NewTextHandler(io.Discard, nil)), url, 0, nil)

	res, err := c.Call(context.Background(), http.MethodGet, "/mesas", nil)
	if res != nil {
		t.Errorf("response = %v, want nil", res)
	}
	if !errors.Is(err, ErrOffline) {
		t.Fatalf("err = %v, want ErrOffline", err)
	}

	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Errorf("err = %T, want *TransportError", err)
	}
}

func TestCallReturnsClientErrorsUnexamined(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	res, err := c.Call(context.Background(), http.MethodPost, "/mesas", models.CreateTableRequest{Number: 1, Capacity: 2})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", res.StatusCode, http.StatusConflict)
	}
}

func TestCreateReservationSendsInputVerbatim(t *testing.T) {
	var got map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/reservas" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":12,"mesa":{"id":3,"numeroMesa":7,"capacidade":4},`+
			`"dataHoraInicio":"2025-03-14T19:30:00","dataHoraFim":"2025-03-14T21:30:00","numeroPessoas":4}`)
	})

	res, err := c.CreateReservation(context.Background(), ReservationInput{
		UserID:    1,
		TableID:   3,
		Start:     "2025-03-14T19:30:00",
		PartySize: 4,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	want := map[string]any{
		"usuarioId":      float64(1),
		"mesaId":         float64(3),
		"dataHoraInicio": "2025-03-14T19:30:00",
		"numeroPessoas":  float64(4),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}

	if res.ID != 12 || res.Table.Number != 7 || res.Start.Clock() != "19:30" || res.End.Clock() != "21:30" {
		t.Errorf("reservation = %+v", res)
	}
}

func TestCreateTableUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"status":"Error","code":"table_exists","error":"Já existe uma mesa com este número."}`)
	})

	_, err := c.CreateTable(context.Background(), models.CreateTableRequest{Number: 1, Capacity: 2})

	var stErr *StatusError
	if !errors.As(err, &stErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}

	want := &StatusError{Status: http.StatusConflict, Code: "table_exists", Message: "Já existe uma mesa com este número."}
	if diff := cmp.Diff(want, stErr); diff != "" {
		t.Errorf("StatusError mismatch (-want +got):\n%s", diff)
	}
}

func TestListTables(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"numeroMesa":4,"capacidade":2},{"id":2,"numeroMesa":5,"capacidade":6}]`)
	})

	got, err := c.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}

	want := []models.Table{{ID: 1, Number: 4, Capacity: 2}, {ID: 2, Number: 5, Capacity: 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}
