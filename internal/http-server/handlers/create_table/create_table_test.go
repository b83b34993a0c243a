package createtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	resp "restaurante/internal/lib/api/response"
	"restaurante/internal/models"
	"restaurante/internal/services/tables"

	"github.com/google/go-cmp/cmp"
)

type fakeCreator struct {
	err    error
	called bool
}

func (f *fakeCreator) Create(_ context.Context, req models.CreateTableRequest) (models.Table, error) {
	f.called = true
	if f.err != nil {
		return models.Table{}, f.err
	}
	return models.Table{ID: 3, Number: req.Number, Capacity: req.Capacity}, nil
}

func serve(t *testing.T, creator TableCreator, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/mesas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	New(slog.New(slog.NewTextHandler(io.Discard, nil)), creator).ServeHTTP(rec, req)

	return rec
}

func TestCreated(t *testing.T) {
	rec := serve(t, &fakeCreator{}, `{"numeroMesa":7,"capacidade":4}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var got models.Table
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if diff := cmp.Diff(models.Table{ID: 3, Number: 7, Capacity: 4}, got); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestRejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
		wantErr  string
	}{
		{
			name:     "missing number",
			body:     `{"capacidade":4}`,
			wantCode: resp.CodeValidationFailed,
			wantErr:  "field numeroMesa is a required field",
		},
		{
			name:     "negative number",
			body:     `{"numeroMesa":-1,"capacidade":4}`,
			wantCode: resp.CodeValidationFailed,
			wantErr:  "field numeroMesa must be greater than 0",
		},
		{
			name:     "negative capacity",
			body:     `{"numeroMesa":7,"capacidade":-2}`,
			wantCode: resp.CodeValidationFailed,
			wantErr:  "field capacidade must be greater than 0",
		},
		{
			name:     "broken json",
			body:     `{"numeroMesa":`,
			wantCode: resp.CodeBadRequest,
			wantErr:  "Failed to decode request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &fakeCreator{}
			rec := serve(t, creator, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if creator.called {
				t.Error("service called for an invalid request")
			}

			var got resp.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if got.Code != tt.wantCode || got.Error != tt.wantErr {
				t.Errorf("body = %+v", got)
			}
		})
	}
}

func TestDuplicateNumber(t *testing.T) {
	rec := serve(t,
		&fakeCreator{err: fmt.Errorf("tables.Create: %w", tables.ErrTableExists)},
		`{"numeroMesa":7,"capacidade":4}`,
	)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var got resp.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Code != "table_exists" || got.Error != "Já existe uma mesa com este número." {
		t.Errorf("body = %+v", got)
	}
}
