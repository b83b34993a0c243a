package listtables

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurante/internal/models"
)

type fakeLister struct {
	tables []models.Table
	err    error
}

func (f fakeLister) List(context.Context) ([]models.Table, error) {
	return f.tables, f.err
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		lister     fakeLister
		wantStatus int
		wantBody   string
	}{
		{
			name:       "empty list is an array",
			lister:     fakeLister{},
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
		{
			name:       "tables",
			lister:     fakeLister{tables: []models.Table{{ID: 1, Number: 4, Capacity: 2}}},
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":1,"numeroMesa":4,"capacidade":2}]`,
		},
		{
			name:       "storage failure",
			lister:     fakeLister{err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"Error","code":"internal","error":"Erro interno do servidor."}`,
		},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(log, tt.lister).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mesas", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}
